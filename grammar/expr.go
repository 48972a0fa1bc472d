package grammar

// Expr is a node of a rule expression tree. Expressions are matched
// against raw bytes; column counting elsewhere is rune-aware, matching
// itself is not.
type Expr interface {
	isExpr()
}

// SeqExpr matches all parts in order.
type SeqExpr struct {
	Exprs []Expr
}

// ChoiceExpr tries alternatives in order and commits to the first match.
type ChoiceExpr struct {
	Exprs []Expr
}

// RepExpr matches Expr at least Min and at most Max times; Max < 0 means
// no upper bound.
type RepExpr struct {
	Expr     Expr
	Min, Max int
}

// LitExpr matches an exact byte sequence.
type LitExpr struct {
	Text string
}

// SetExpr matches one byte contained in Chars or in one of the inclusive
// Ranges (pairs of low, high bytes).
type SetExpr struct {
	Chars  string
	Ranges [][2]byte
}

// AnyExpr matches any single byte.
type AnyExpr struct{}

// EofExpr matches at the end of input only and consumes nothing.
type EofExpr struct{}

// RefExpr is a rule attempt: matching it invokes the named rule and
// reports the attempt to the installed hooks. The id is resolved by
// Grammar.Validate.
type RefExpr struct {
	Name string
	rule int
}

// Rule returns the resolved rule id, or NoRule before validation.
func (e *RefExpr) Rule() int {
	return e.rule
}

// AndExpr is a positive lookahead: succeeds iff Expr matches, consumes
// nothing, produces no tree effects.
type AndExpr struct {
	Expr Expr
}

// NotExpr is a negative lookahead: succeeds iff Expr fails, consumes
// nothing, produces no tree effects.
type NotExpr struct {
	Expr Expr
}

// MustExpr matches Expr; if Expr fails the whole parse aborts non-locally
// instead of backtracking. The abort is caught by the nearest enclosing
// TryExpr, or surfaces as the parse error.
type MustExpr struct {
	Expr Expr
}

// TryExpr matches Expr in a guarded scope: aborts raised inside are
// converted to ordinary failure at this boundary, and tree state built
// inside is kept only on success.
type TryExpr struct {
	Expr Expr
}

func (*SeqExpr) isExpr()    {}
func (*ChoiceExpr) isExpr() {}
func (*RepExpr) isExpr()    {}
func (*LitExpr) isExpr()    {}
func (*SetExpr) isExpr()    {}
func (*AnyExpr) isExpr()    {}
func (*EofExpr) isExpr()    {}
func (*RefExpr) isExpr()    {}
func (*AndExpr) isExpr()    {}
func (*NotExpr) isExpr()    {}
func (*MustExpr) isExpr()   {}
func (*TryExpr) isExpr()    {}

func Seq(es ...Expr) Expr {
	return &SeqExpr{es}
}

func Choice(es ...Expr) Expr {
	return &ChoiceExpr{es}
}

func Star(e Expr) Expr {
	return &RepExpr{e, 0, -1}
}

func Plus(e Expr) Expr {
	return &RepExpr{e, 1, -1}
}

func Opt(e Expr) Expr {
	return &RepExpr{e, 0, 1}
}

func Rep(e Expr, min, max int) Expr {
	return &RepExpr{e, min, max}
}

func Lit(text string) Expr {
	return &LitExpr{text}
}

func Set(chars string) Expr {
	return &SetExpr{Chars: chars}
}

func Range(lo, hi byte) Expr {
	return &SetExpr{Ranges: [][2]byte{{lo, hi}}}
}

func Any() Expr {
	return &AnyExpr{}
}

func Eof() Expr {
	return &EofExpr{}
}

func Ref(name string) Expr {
	return &RefExpr{Name: name, rule: NoRule}
}

func And(e Expr) Expr {
	return &AndExpr{e}
}

func Not(e Expr) Expr {
	return &NotExpr{e}
}

func Must(e Expr) Expr {
	return &MustExpr{e}
}

func Try(e Expr) Expr {
	return &TryExpr{e}
}
