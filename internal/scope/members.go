package scope

// MethodKind distinguishes plain methods from signals and slots.
type MethodKind uint8

const (
	MethodPlain MethodKind = iota
	MethodSignal
	MethodSlot
)

func (k MethodKind) String() string {
	switch k {
	case MethodSignal:
		return "signal"
	case MethodSlot:
		return "slot"
	default:
		return "method"
	}
}

// Param is a named, optionally typed method parameter.
type Param struct {
	Name string
	Type string
}

// Method is one overload of a method, signal or slot.
type Method struct {
	Name       string
	Kind       MethodKind
	Params     []Param
	ReturnType string
}

// ParamNames returns the parameter names in declaration order.
func (m Method) ParamNames() []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}

// Property describes a declared or inherited property.
type Property struct {
	Name     string
	TypeName string
	IsList   bool
	// IsWritable is false for readonly properties.
	IsWritable bool
	IsPointer  bool
	IsAlias    bool
	// Type is the resolved type scope, when known.
	Type *Scope
}

// Enum is a named enumeration with its keys.
type Enum struct {
	Name string
	Keys []string
}

// HasKey reports whether key belongs to the enumeration.
func (e Enum) HasKey(key string) bool {
	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// AddMethod appends an overload.
func (s *Scope) AddMethod(m Method) {
	s.methods.add(m.Name, m)
}

// AddMethods appends every overload of ms.
func (s *Scope) AddMethods(ms []Method) {
	for _, m := range ms {
		s.AddMethod(m)
	}
}

// Methods returns all overloads in insertion order.
func (s *Scope) Methods() []Method {
	return s.methods.values()
}

// MethodsNamed returns the overloads registered under name.
func (s *Scope) MethodsNamed(name string) []Method {
	return s.methods.get(name)
}

// HasMethod reports whether any overload is registered under name.
func (s *Scope) HasMethod(name string) bool {
	return len(s.methods.get(name)) > 0
}

// Signal returns the first overload of name that is a signal.
func (s *Scope) Signal(name string) (Method, bool) {
	for _, m := range s.methods.get(name) {
		if m.Kind == MethodSignal {
			return m, true
		}
	}
	return Method{}, false
}

// Signals lists every signal overload in insertion order.
func (s *Scope) Signals() []Method {
	var out []Method
	for _, m := range s.methods.values() {
		if m.Kind == MethodSignal {
			out = append(out, m)
		}
	}
	return out
}

// InsertProperty adds p, replacing any property of the same name.
func (s *Scope) InsertProperty(p Property) {
	s.properties.set(p.Name, p)
}

// Property looks up a property declared on (or flattened into) s.
func (s *Scope) Property(name string) (Property, bool) {
	return s.properties.get(name)
}

// Properties returns the properties in insertion order.
func (s *Scope) Properties() []Property {
	return s.properties.values()
}

// AddEnum adds e, replacing an enum of the same name.
func (s *Scope) AddEnum(e Enum) {
	s.enums.set(e.Name, e)
}

// Enum looks up an enumeration by name.
func (s *Scope) Enum(name string) (Enum, bool) {
	return s.enums.get(name)
}

// Enums returns the enumerations in insertion order.
func (s *Scope) Enums() []Enum {
	return s.enums.values()
}

// HasEnumKey reports whether any enumeration of s has key.
func (s *Scope) HasEnumKey(key string) bool {
	for _, e := range s.enums.values() {
		if e.HasKey(key) {
			return true
		}
	}
	return false
}

// HasMember reports whether name is a property, method, enum or enum key of s.
func (s *Scope) HasMember(name string) bool {
	if _, ok := s.properties.get(name); ok {
		return true
	}
	if s.HasMethod(name) {
		return true
	}
	if _, ok := s.enums.get(name); ok {
		return true
	}
	return s.HasEnumKey(name)
}

// Lookup walks s and its resolved base chain for a member named name and
// returns the scope declaring it. Base chains may be cyclic in malformed
// input, so visited scopes are tracked.
func (s *Scope) Lookup(name string) (*Scope, bool) {
	seen := make(map[*Scope]struct{})
	for cur := s; cur != nil; cur = cur.baseType {
		if _, dup := seen[cur]; dup {
			return nil, false
		}
		seen[cur] = struct{}{}
		if cur.HasMember(name) {
			return cur, true
		}
	}
	return nil, false
}

// Stats summarises table sizes for traces.
func (s *Scope) Stats() (idents, properties, methods, enums int) {
	return s.idents.len(), s.properties.len(), len(s.methods.values()), s.enums.len()
}
