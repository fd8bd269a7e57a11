package scope

// table is an insertion-ordered map so that iteration, and therefore
// diagnostic order, is deterministic.
type table[T any] struct {
	items map[string]T
	order []string
}

func (t *table[T]) set(name string, v T) {
	if t.items == nil {
		t.items = make(map[string]T)
	}
	if _, ok := t.items[name]; !ok {
		t.order = append(t.order, name)
	}
	t.items[name] = v
}

func (t *table[T]) get(name string) (T, bool) {
	v, ok := t.items[name]
	return v, ok
}

func (t *table[T]) values() []T {
	out := make([]T, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.items[name])
	}
	return out
}

func (t *table[T]) len() int { return len(t.order) }

// multiTable keeps every entry registered under a name, in insertion order.
type multiTable[T any] struct {
	items map[string][]T
	order []string
}

func (t *multiTable[T]) add(name string, v T) {
	if t.items == nil {
		t.items = make(map[string][]T)
	}
	if _, ok := t.items[name]; !ok {
		t.order = append(t.order, name)
	}
	t.items[name] = append(t.items[name], v)
}

func (t *multiTable[T]) get(name string) []T {
	return t.items[name]
}

func (t *multiTable[T]) values() []T {
	var out []T
	for _, name := range t.order {
		out = append(out, t.items[name]...)
	}
	return out
}
