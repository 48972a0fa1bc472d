// Package tree builds concrete syntax trees from the rule attempt
// sequence reported by the parser package.
//
// While the matcher attempts rules, the builder keeps a stack of
// in-progress nodes mirroring the matcher's call stack. A Policy decides
// which rules produce nodes in the final tree; nodes of unselected rules
// are flattened away, their children attached to the nearest selected
// ancestor in source order. Finished nodes can be transformed before
// attachment: content stripped, folded into a single child, or discarded
// when empty.
//
// Node ownership is strictly single-owner: a node appended to a parent is
// never reachable from anywhere else, and splicing drains the source
// node's child list.
package tree

import (
	"github.com/pzaremba/pegtree/grammar"
	"github.com/pzaremba/pegtree/source"
)

// Node is a finished or in-progress syntax tree node. An empty rule name
// marks a root: roots own the top-level nodes of a parse and carry no
// positions of their own.
type Node struct {
	rule     int
	name     string
	src      *source.Source
	begin    int
	end      int
	started  bool
	children []*Node
}

func newNode() *Node {
	return &Node{rule: grammar.NoRule, begin: -1, end: -1}
}

// Start records the owning rule and the begin position. It must be
// called exactly once, before any child is attached; a second call
// panics.
func (n *Node) Start(rule int, name string, src *source.Source, offset int) {
	if n.started {
		panic("pegtree/tree: Start called twice on a node")
	}
	n.rule = rule
	n.name = name
	n.src = src
	n.begin = offset
	n.started = true
}

// Success records the end position of a successfully matched rule. It
// panics when called before Start.
func (n *Node) Success(offset int) {
	if !n.started {
		panic("pegtree/tree: Success called on an unstarted node")
	}
	n.end = offset
}

// Failure is called when the owning rule attempt fails, just before the
// node and its subtree are discarded. The default node has nothing to
// clean up.
func (n *Node) Failure() {}

// RemoveContent clears the end position, invalidating the content
// accessors while keeping children. Idempotent.
func (n *Node) RemoveContent() {
	n.end = -1
}

// AppendChild takes ownership of a finished node, appending it in
// arrival order.
func (n *Node) AppendChild(c *Node) {
	if c == nil {
		panic("pegtree/tree: AppendChild on a nil child")
	}
	n.children = append(n.children, c)
}

// splice moves all children of another node onto this one, preserving
// their order and draining the source.
func (n *Node) splice(from *Node) {
	n.children = append(n.children, from.children...)
	from.children = nil
}

func (n *Node) IsRoot() bool {
	return n.name == ""
}

// Rule returns the owning rule id, or grammar.NoRule for roots.
func (n *Node) Rule() int {
	return n.rule
}

// Type returns the owning rule name, "" for roots.
func (n *Node) Type() string {
	return n.name
}

func (n *Node) IsType(rule int) bool {
	return !n.IsRoot() && n.rule == rule
}

func (n *Node) Source() *source.Source {
	return n.src
}

// Begin returns the begin position. Panics on roots and other unstarted
// nodes.
func (n *Node) Begin() source.Pos {
	if !n.started {
		panic("pegtree/tree: node has no begin position")
	}
	return n.src.MakePos(n.begin)
}

// End returns the end position. Panics unless the node has content.
func (n *Node) End() source.Pos {
	n.mustHaveContent()
	return n.src.MakePos(n.end)
}

// HasContent reports whether the node's span is available: the owning
// rule succeeded and the content was not removed by a transform.
func (n *Node) HasContent() bool {
	return n.started && n.end >= 0
}

// Text returns the matched text. Panics unless the node has content.
func (n *Node) Text() string {
	n.mustHaveContent()
	return string(n.src.Slice(n.begin, n.end))
}

// Input returns the node's span as a fresh sub-input for a secondary
// parse pass; reported positions stay in the original coordinates.
// Panics unless the node has content.
func (n *Node) Input() *source.Source {
	n.mustHaveContent()
	return n.src.At(n.begin, n.end)
}

// Children returns the node's children in source order. The slice is
// owned by the node and must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) mustHaveContent() {
	if !n.HasContent() {
		panic("pegtree/tree: node has no content")
	}
}
