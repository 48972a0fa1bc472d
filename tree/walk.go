package tree

// WalkerFlags control traversal from inside a visitor.
type WalkerFlags int

const (
	WalkerSkipChildren WalkerFlags = 1 << iota
	WalkerStop
)

// WalkStat is passed to visitors: the current node and its depth
// relative to the traversal root.
type WalkStat struct {
	Node  *Node
	Level int
}

type Visitor func(stat WalkStat) WalkerFlags

// Walk traverses the subtree rooted at n depth-first in source order.
// It reports whether the traversal ran to completion.
func Walk(n *Node, visitor Visitor) bool {
	if n == nil {
		return true
	}
	return walkNode(n, 0, visitor)
}

func walkNode(n *Node, level int, visitor Visitor) bool {
	flags := visitor(WalkStat{n, level})
	if flags&WalkerStop != 0 {
		return false
	}
	if flags&WalkerSkipChildren != 0 {
		return true
	}

	for _, c := range n.children {
		if !walkNode(c, level+1, visitor) {
			return false
		}
	}
	return true
}

// Find returns the first node of the given rule type in the subtree, in
// source order, or nil.
func Find(n *Node, rule int) (res *Node) {
	Walk(n, func(stat WalkStat) WalkerFlags {
		if stat.Node.IsType(rule) {
			res = stat.Node
			return WalkerStop
		}
		return 0
	})
	return
}
