package ast

// Visitor receives enter/exit events for every node of a document.
// Children are walked only when Visit returns true; EndVisit is delivered for
// every visited node regardless, so enter/leave actions always pair up.
type Visitor interface {
	Visit(n *Node) bool
	EndVisit(n *Node)
}

// DepthLimiter is implemented by visitors that bound the nesting depth.
// Subtrees nested deeper than MaxDepth are reported and skipped entirely.
type DepthLimiter interface {
	MaxDepth() int
	DepthExceeded(n *Node)
}

// Walk traverses n in document order.
func Walk(v Visitor, n *Node) {
	w := newWalker(v)
	w.walk(n, 0)
}

// WalkChildren traverses the children of n without visiting n itself.
// depth is the depth n was met at; the limit keeps counting from there.
func WalkChildren(v Visitor, n *Node, depth int) {
	if n == nil {
		return
	}
	w := newWalker(v)
	for _, c := range n.Children {
		w.walk(c, depth+1)
	}
}

type walker struct {
	v     Visitor
	limit DepthLimiter
	max   int
}

func newWalker(v Visitor) *walker {
	w := &walker{v: v}
	if dl, ok := v.(DepthLimiter); ok {
		w.limit = dl
		w.max = dl.MaxDepth()
	}
	return w
}

func (w *walker) walk(n *Node, depth int) {
	if n == nil {
		return
	}
	if w.limit != nil && w.max > 0 && depth >= w.max {
		w.limit.DepthExceeded(n)
		return
	}
	if w.v.Visit(n) {
		for _, c := range n.Children {
			w.walk(c, depth+1)
		}
	}
	w.v.EndVisit(n)
}
