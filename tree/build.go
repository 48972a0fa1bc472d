package tree

import (
	"github.com/pzaremba/pegtree/grammar"
	"github.com/pzaremba/pegtree/parser"
	"github.com/pzaremba/pegtree/source"
)

// frameStack is the ordered sequence of in-progress nodes mirroring the
// matcher's call stack. A fresh stack holds one root frame, present for
// the lifetime of the parse; popping an empty stack is a programming
// error and panics.
type frameStack struct {
	frames []*Node
}

func newFrameStack() *frameStack {
	s := &frameStack{frames: make([]*Node, 0, 16)}
	s.push()
	return s
}

func (s *frameStack) push() {
	s.frames = append(s.frames, newNode())
}

func (s *frameStack) pop() *Node {
	last := len(s.frames) - 1
	if last < 0 {
		panic("pegtree/tree: pop on an empty frame stack")
	}
	n := s.frames[last]
	s.frames[last] = nil
	s.frames = s.frames[:last]
	return n
}

func (s *frameStack) top() *Node {
	if len(s.frames) == 0 {
		panic("pegtree/tree: no top frame on an empty frame stack")
	}
	return s.frames[len(s.frames)-1]
}

func (s *frameStack) depth() int {
	return len(s.frames)
}

// builder receives the rule attempt lifecycle from the matcher and keeps
// the frame stack in lockstep with it. Selected rules get a started
// frame; unselected rules get a placeholder frame that only collects
// children for splicing. Either way every attempt pushes exactly one
// frame and pops it on success or failure, so stack depth around any
// attempt is invariant.
type builder struct {
	grammar *grammar.Grammar
	src     *source.Source
	policy  *compiledPolicy
	stack   *frameStack
}

func (b *builder) StartRule(rule, offset int) {
	if b.policy.skip(rule) {
		return
	}

	b.stack.push()
	if b.policy.isSelected(rule) {
		b.stack.top().Start(rule, b.grammar.Name(rule), b.src, offset)
	}
}

func (b *builder) SucceedRule(rule, offset int) {
	if b.policy.skip(rule) {
		return
	}

	n := b.stack.pop()
	if !b.policy.isSelected(rule) {
		b.stack.top().splice(n)
		return
	}

	n.Success(offset)
	if t := b.policy.transform(rule); t != nil {
		n = t(n)
	}
	if n != nil {
		b.stack.top().AppendChild(n)
	}
}

func (b *builder) FailRule(rule int) {
	if b.policy.skip(rule) {
		return
	}

	b.stack.pop().Failure()
}

// BeginGuard swaps the live stack for a fresh isolated one, so that tree
// mutations inside a guarded scope cannot leak into the live tree if the
// scope fails or aborts.
func (b *builder) BeginGuard() any {
	saved := b.stack
	b.stack = newFrameStack()
	return saved
}

// EndGuard restores the live stack first, then splices the isolated
// scope's children onto it if the scope succeeded; on failure or abort
// the isolated stack is dropped as a whole.
func (b *builder) EndGuard(token any, ok bool) {
	isolated := b.stack
	b.stack = token.(*frameStack)
	if !ok {
		return
	}

	if isolated.depth() != 1 {
		panic("pegtree/tree: guarded scope finished with unbalanced frames")
	}
	b.stack.top().splice(isolated.top())
}

// Parse runs the matcher with the builder installed and returns the
// finished root node, whose children are the top-level selected nodes in
// source order. On match failure it returns nil and the syntax error; no
// partial tree is ever returned.
func Parse(p *parser.Parser, src *source.Source, start string, policy *Policy) (*Node, error) {
	cp, e := compilePolicy(p.Grammar(), policy)
	if e != nil {
		return nil, e
	}

	b := &builder{grammar: p.Grammar(), src: src, policy: cp, stack: newFrameStack()}
	e = p.Parse(src, start, b)
	if e != nil {
		return nil, e
	}

	if b.stack.depth() != 1 {
		panic("pegtree/tree: parse finished with unbalanced frames")
	}
	return b.stack.pop(), nil
}

// ParseString is a convenience wrapper around Parse for in-memory text.
func ParseString(p *parser.Parser, name, text, start string, policy *Policy) (*Node, error) {
	return Parse(p, source.New(name, []byte(text)), start, policy)
}
