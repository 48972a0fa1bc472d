package tree

import (
	"github.com/pzaremba/pegtree/grammar"
)

// Transform finalizes a successfully finished node before it is attached
// to its parent. It owns the node: it may mutate it, replace it with
// another node (typically one of its children), or return nil to discard
// it. A nil Transform keeps the node as is.
type Transform func(n *Node) *Node

// RemoveContent strips the node's span, keeping its children.
func RemoveContent(n *Node) *Node {
	n.RemoveContent()
	return n
}

// FoldOne replaces a node having exactly one child with that child;
// otherwise it behaves as RemoveContent.
func FoldOne(n *Node) *Node {
	if len(n.children) == 1 {
		c := n.children[0]
		n.children = nil
		return c
	}
	n.RemoveContent()
	return n
}

// DiscardEmpty drops a node without children entirely; otherwise it
// behaves as RemoveContent.
func DiscardEmpty(n *Node) *Node {
	if len(n.children) == 0 {
		return nil
	}
	n.RemoveContent()
	return n
}

// Policy decides, per rule, whether a successful match produces a node
// in the final tree and how that node is finalized. A rule named by any
// of the methods below is selected; all other rules are flattened away.
// A nil *Policy passed to Parse selects every rule with no transform.
//
// The policy is fixed before parsing starts; rule names are resolved
// against the grammar when the parse begins.
type Policy struct {
	entries map[string]Transform
	prune   bool
}

func NewPolicy() *Policy {
	return &Policy{entries: map[string]Transform{}}
}

// Store selects rules whose nodes are kept unchanged, content included.
func (p *Policy) Store(names ...string) *Policy {
	return p.add(nil, names)
}

// RemoveContent selects rules whose nodes keep children but no content.
func (p *Policy) RemoveContent(names ...string) *Policy {
	return p.add(RemoveContent, names)
}

// FoldOne selects rules whose nodes collapse into their only child.
func (p *Policy) FoldOne(names ...string) *Policy {
	return p.add(FoldOne, names)
}

// DiscardEmpty selects rules whose childless nodes are dropped.
func (p *Policy) DiscardEmpty(names ...string) *Policy {
	return p.add(DiscardEmpty, names)
}

// Apply selects a rule with a custom transform; a nil transform keeps
// nodes unchanged.
func (p *Policy) Apply(name string, t Transform) *Policy {
	p.entries[name] = t
	return p
}

// Prune enables the reachability optimization: unselected rules that can
// never produce a selected descendant get no builder frames at all. The
// resulting tree is identical with and without pruning.
func (p *Policy) Prune(on bool) *Policy {
	p.prune = on
	return p
}

func (p *Policy) add(t Transform, names []string) *Policy {
	for _, name := range names {
		p.entries[name] = t
	}
	return p
}

// compiledPolicy is the per-rule-id view of a Policy, resolved against a
// grammar and fixed for one parse.
type compiledPolicy struct {
	selected   []bool
	transforms []Transform
	skipped    []bool
}

func compilePolicy(g *grammar.Grammar, p *Policy) (*compiledPolicy, error) {
	count := g.RuleCount()
	cp := &compiledPolicy{
		selected:   make([]bool, count),
		transforms: make([]Transform, count),
		skipped:    make([]bool, count),
	}

	if p == nil {
		for i := range cp.selected {
			cp.selected[i] = true
		}
		return cp, nil
	}

	for name, t := range p.entries {
		id, found := g.RuleID(name)
		if !found {
			return nil, unknownPolicyRuleError(name)
		}
		cp.selected[id] = true
		cp.transforms[id] = t
	}

	if p.prune {
		cp.computeSkipped(g)
	}
	return cp, nil
}

// computeSkipped marks rules that are not selected and cannot reach a
// selected rule: their frames would always be empty placeholders, so the
// builder skips them entirely.
func (cp *compiledPolicy) computeSkipped(g *grammar.Grammar) {
	produces := make([]bool, len(cp.selected))
	copy(produces, cp.selected)

	changed := true
	for changed {
		changed = false
		for id := range produces {
			if produces[id] {
				continue
			}
			for _, sub := range g.Subs(id) {
				if produces[sub] {
					produces[id] = true
					changed = true
					break
				}
			}
		}
	}

	for id, p := range produces {
		cp.skipped[id] = !p
	}
}

func (cp *compiledPolicy) isSelected(rule int) bool {
	return rule >= 0 && rule < len(cp.selected) && cp.selected[rule]
}

func (cp *compiledPolicy) skip(rule int) bool {
	return rule >= 0 && rule < len(cp.skipped) && cp.skipped[rule]
}

func (cp *compiledPolicy) transform(rule int) Transform {
	if rule < 0 || rule >= len(cp.transforms) {
		return nil
	}
	return cp.transforms[rule]
}
