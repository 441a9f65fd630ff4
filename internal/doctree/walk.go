package doctree

import (
	"iter"
	"strings"
)

// All yields root and every descendant in document order (pre-order).
func All(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(root, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children() {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// Find lazily yields every node of variant T below and including root.
func Find[T Node](root Node) iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := range All(root) {
			if t, ok := n.(T); ok {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// Collect returns every node of variant T in document order.
func Collect[T Node](root Node) []T {
	var out []T
	for n := range Find[T](root) {
		out = append(out, n)
	}
	return out
}

// Ancestor returns the ancestor depth levels above n: 1 is the parent, 2 the
// grandparent. ok is false when the tree is not that deep.
func Ancestor(n Node, depth int) (Node, bool) {
	cur := n
	for range depth {
		if cur == nil {
			return nil, false
		}
		cur = cur.Parent()
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Stringify flattens the text content below n.
func Stringify(n Node) string {
	var b strings.Builder
	for c := range All(n) {
		switch t := c.(type) {
		case *Text:
			b.WriteString(t.Value)
		case *CodeBlock:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}
