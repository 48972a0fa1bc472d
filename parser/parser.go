// Package parser implements the backtracking PEG matcher. The matcher
// itself builds nothing: every rule attempt is reported to an installed
// Hooks implementation as a strictly nested start/success/failure
// sequence, and the tree package turns that sequence into a syntax tree.
//
// Backtrack points that can discard an already successful rule attempt
// (choice alternatives and repetition steps) are reported as anonymous
// attempts with rule id grammar.NoRule, so a hook set can always undo
// exactly the attempts the matcher threw away.
package parser

import (
	"github.com/pzaremba/pegtree/grammar"
	"github.com/pzaremba/pegtree/source"
)

// Hooks receives one call per rule attempt boundary. Calls mirror the
// nested attempt structure: every StartRule is followed, after any number
// of properly nested calls, by exactly one SucceedRule or FailRule for
// the same attempt. Offsets are absolute byte offsets into the input.
type Hooks interface {
	StartRule(rule int, offset int)
	SucceedRule(rule int, offset int)
	FailRule(rule int)
}

// GuardHooks is implemented by hook sets that must stay consistent across
// guarded scopes (grammar.Try). BeginGuard is called when a guarded scope
// is entered and returns an opaque token; EndGuard receives the token and
// the scope outcome on every exit path, including recovered aborts.
// A hook set used with a grammar containing Try expressions must
// implement GuardHooks.
type GuardHooks interface {
	BeginGuard() any
	EndGuard(token any, ok bool)
}

type Parser struct {
	grammar *grammar.Grammar
	hasRefs map[grammar.Expr]bool
	hasTry  bool
}

// New validates the grammar and creates a parser for it.
func New(g *grammar.Grammar) (*Parser, error) {
	if e := g.Validate(); e != nil {
		return nil, e
	}

	p := &Parser{grammar: g, hasRefs: make(map[grammar.Expr]bool)}
	for id := 0; id < g.RuleCount(); id++ {
		p.scanExpr(g.Expr(id))
	}
	return p, nil
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// scanExpr records which expression nodes contain rule references (those
// need anonymous attempt scopes when backtracked over) and whether the
// grammar uses guarded scopes at all.
func (p *Parser) scanExpr(x grammar.Expr) bool {
	if x == nil {
		return false
	}
	if has, seen := p.hasRefs[x]; seen {
		return has
	}

	has := false
	switch e := x.(type) {
	case *grammar.RefExpr:
		has = true
	case *grammar.SeqExpr:
		for _, s := range e.Exprs {
			has = p.scanExpr(s) || has
		}
	case *grammar.ChoiceExpr:
		for _, s := range e.Exprs {
			has = p.scanExpr(s) || has
		}
	case *grammar.RepExpr:
		has = p.scanExpr(e.Expr)
	case *grammar.AndExpr:
		p.scanExpr(e.Expr)
	case *grammar.NotExpr:
		p.scanExpr(e.Expr)
	case *grammar.MustExpr:
		has = p.scanExpr(e.Expr)
	case *grammar.TryExpr:
		p.hasTry = true
		has = p.scanExpr(e.Expr)
	}

	p.hasRefs[x] = has
	return has
}

// Parse attempts the named start rule against src. A nil result means the
// start rule matched (the whole input is consumed only if the grammar
// demands it, e.g. with a trailing Eof). hooks may be nil for pure
// recognition.
func (p *Parser) Parse(src *source.Source, start string, hooks Hooks) error {
	id, found := p.grammar.RuleID(start)
	if !found {
		return unknownStartRuleError(start)
	}

	guards, _ := hooks.(GuardHooks)
	if p.hasTry && hooks != nil && guards == nil {
		return noGuardHooksError()
	}

	pc := &parseContext{
		parser:  p,
		src:     src,
		content: src.Content(),
		end:     src.End(),
		hooks:   hooks,
		guards:  guards,
		pos:     src.Begin(),
		failPos: src.Begin() - 1,
	}

	ok, abortPos := pc.run(id)
	if ok {
		return nil
	}
	return pc.syntaxError(abortPos)
}

type parseContext struct {
	parser   *Parser
	src      *source.Source
	content  []byte
	end      int
	hooks    Hooks
	guards   GuardHooks
	pos      int
	muted    int
	failPos  int
	expected string
}

// abort is the non-local failure raised by grammar.Must and recovered at
// the nearest grammar.Try or at the top level.
type abort struct {
	pos int
}

func (pc *parseContext) run(rule int) (ok bool, abortPos int) {
	abortPos = -1
	defer func() {
		if r := recover(); r != nil {
			a, is := r.(*abort)
			if !is {
				panic(r)
			}
			ok = false
			abortPos = a.pos
		}
	}()

	return pc.matchRule(rule), -1
}

func (pc *parseContext) startRule(rule int) {
	if pc.hooks != nil && pc.muted == 0 {
		pc.hooks.StartRule(rule, pc.pos)
	}
}

func (pc *parseContext) succeedRule(rule int) {
	if pc.hooks != nil && pc.muted == 0 {
		pc.hooks.SucceedRule(rule, pc.pos)
	}
}

func (pc *parseContext) failRule(rule int) {
	if pc.hooks != nil && pc.muted == 0 {
		pc.hooks.FailRule(rule)
	}
}

func (pc *parseContext) matchRule(rule int) bool {
	start := pc.pos
	pc.startRule(rule)
	if pc.match(pc.parser.grammar.Expr(rule)) {
		pc.succeedRule(rule)
		return true
	}

	pc.failRule(rule)
	pc.pos = start
	return false
}

// scope wraps a backtrackable sub-match in an anonymous attempt so that
// hooks can discard whatever the sub-match produced if it fails. The
// wrapper is skipped when the sub-expression cannot reach a rule attempt,
// which has no observable effect on the reported sequence of real rules.
func (pc *parseContext) scope(x grammar.Expr) bool {
	if pc.hooks == nil || pc.muted > 0 || !pc.parser.hasRefs[x] {
		return pc.match(x)
	}

	pc.startRule(grammar.NoRule)
	if pc.match(x) {
		pc.succeedRule(grammar.NoRule)
		return true
	}

	pc.failRule(grammar.NoRule)
	return false
}

// match attempts an expression at the current position. On failure the
// position is left unchanged.
func (pc *parseContext) match(x grammar.Expr) bool {
	switch e := x.(type) {
	case *grammar.LitExpr:
		if len(pc.content)-pc.pos < len(e.Text) || pc.pos+len(e.Text) > pc.end ||
			string(pc.content[pc.pos:pc.pos+len(e.Text)]) != e.Text {
			return pc.fail(quote(e.Text))
		}
		pc.pos += len(e.Text)
		return true

	case *grammar.SetExpr:
		if pc.pos < pc.end && matchSet(e, pc.content[pc.pos]) {
			pc.pos++
			return true
		}
		return pc.fail(describeSet(e))

	case *grammar.AnyExpr:
		if pc.pos >= pc.end {
			return pc.fail("any character")
		}
		pc.pos++
		return true

	case *grammar.EofExpr:
		if pc.pos < pc.end {
			return pc.fail("end of input")
		}
		return true

	case *grammar.SeqExpr:
		start := pc.pos
		for _, s := range e.Exprs {
			if !pc.match(s) {
				pc.pos = start
				return false
			}
		}
		return true

	case *grammar.ChoiceExpr:
		for _, s := range e.Exprs {
			if pc.scope(s) {
				return true
			}
		}
		return false

	case *grammar.RepExpr:
		start := pc.pos
		count := 0
		for e.Max < 0 || count < e.Max {
			last := pc.pos
			if !pc.scope(e.Expr) {
				break
			}
			count++
			if pc.pos == last && e.Max < 0 {
				break
			}
		}
		if count < e.Min {
			pc.pos = start
			return false
		}
		return true

	case *grammar.RefExpr:
		return pc.matchRule(e.Rule())

	case *grammar.AndExpr:
		start := pc.pos
		ok := pc.matchMuted(e.Expr)
		pc.pos = start
		return ok

	case *grammar.NotExpr:
		start := pc.pos
		ok := pc.matchMuted(e.Expr)
		pc.pos = start
		return !ok

	case *grammar.MustExpr:
		if !pc.match(e.Expr) {
			panic(&abort{pc.pos})
		}
		return true

	case *grammar.TryExpr:
		return pc.matchTry(e)
	}

	panic("pegtree/parser: unknown grammar expression")
}

// matchMuted attempts an expression with hooks and failure recording
// silenced. The deferred decrement keeps the counter correct when an
// abort unwinds through the predicate.
func (pc *parseContext) matchMuted(x grammar.Expr) bool {
	pc.muted++
	defer func() { pc.muted-- }()
	return pc.match(x)
}

func (pc *parseContext) matchTry(e *grammar.TryExpr) bool {
	start := pc.pos
	var token any
	guarded := pc.guards != nil && pc.muted == 0
	if guarded {
		token = pc.guards.BeginGuard()
	}

	ok := pc.matchCatch(e.Expr)
	if guarded {
		pc.guards.EndGuard(token, ok)
	}
	if !ok {
		pc.pos = start
	}
	return ok
}

func (pc *parseContext) matchCatch(x grammar.Expr) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, is := r.(*abort); !is {
				panic(r)
			}
			ok = false
		}
	}()

	return pc.match(x)
}

func (pc *parseContext) fail(expected string) bool {
	if pc.muted == 0 && pc.pos > pc.failPos {
		pc.failPos = pc.pos
		pc.expected = expected
	}
	return false
}

func (pc *parseContext) syntaxError(abortPos int) error {
	if abortPos >= 0 {
		return abortedError(pc.src.MakePos(abortPos))
	}

	pos := pc.failPos
	if pos < pc.src.Begin() {
		pos = pc.src.Begin()
	}
	if pos >= pc.end && pc.expected != "" && pc.expected != "end of input" {
		return unexpectedEofError(pc.src.MakePos(pos), pc.expected)
	}
	return unexpectedInputError(pc.src.MakePos(pos), pc.expected)
}

func matchSet(e *grammar.SetExpr, c byte) bool {
	for i := 0; i < len(e.Chars); i++ {
		if e.Chars[i] == c {
			return true
		}
	}
	for _, r := range e.Ranges {
		if c >= r[0] && c <= r[1] {
			return true
		}
	}
	return false
}
