// Package grammar defines PEG grammars as plain data: a table of named
// rules, each holding an expression tree built from the Expr forms below.
// Rules are identified by small integer ids assigned in registration order;
// the matcher and the tree builder refer to rules by these ids only.
package grammar

// NoRule is the rule id of anonymous matcher scopes and of tree roots.
const NoRule = -1

type Grammar struct {
	rules  []rule
	names  map[string]int
	errors []error
	valid  bool
}

type rule struct {
	name string
	expr Expr
}

func New() *Grammar {
	return &Grammar{names: map[string]int{}}
}

// Rule registers a named rule and returns its id. Registration order
// determines ids. Duplicate or empty names and nil expressions are
// reported by Validate.
func (g *Grammar) Rule(name string, e Expr) int {
	if name == "" {
		g.errors = append(g.errors, emptyRuleNameError())
	} else if _, has := g.names[name]; has {
		g.errors = append(g.errors, redefinedRuleError(name))
	}
	if e == nil {
		g.errors = append(g.errors, nilRuleExprError(name))
	}

	g.valid = false
	id := len(g.rules)
	g.rules = append(g.rules, rule{name, e})
	if name != "" {
		g.names[name] = id
	}
	return id
}

func (g *Grammar) RuleCount() int {
	return len(g.rules)
}

func (g *Grammar) RuleID(name string) (id int, found bool) {
	id, found = g.names[name]
	return
}

// Name returns the rule name for an id, or "" for NoRule and unknown ids.
func (g *Grammar) Name(id int) string {
	if id < 0 || id >= len(g.rules) {
		return ""
	}
	return g.rules[id].name
}

func (g *Grammar) Expr(id int) Expr {
	if id < 0 || id >= len(g.rules) {
		return nil
	}
	return g.rules[id].expr
}

// Subs returns ids of rules referenced directly from the body of a rule,
// in reference order, without duplicates.
func (g *Grammar) Subs(id int) []int {
	e := g.Expr(id)
	if e == nil {
		return nil
	}

	res := make([]int, 0)
	seen := make(map[int]bool)
	walkExprs(e, func(e Expr) {
		if r, is := e.(*RefExpr); is && !seen[r.rule] {
			seen[r.rule] = true
			res = append(res, r.rule)
		}
	})
	return res
}

// Validate resolves rule references and checks the grammar for authoring
// errors: duplicate or empty rule names, nil expressions, references to
// unknown rules, empty sequences and choices, bad repetition bounds.
// It returns the first error found, or nil. Validation is idempotent.
func (g *Grammar) Validate() error {
	if g.valid {
		return nil
	}
	if len(g.errors) > 0 {
		return g.errors[0]
	}

	for i := range g.rules {
		if e := g.validateExpr(g.rules[i].name, g.rules[i].expr); e != nil {
			return e
		}
	}

	g.valid = true
	return nil
}

func (g *Grammar) validateExpr(rule string, x Expr) (err error) {
	walkExprs(x, func(x Expr) {
		if err != nil {
			return
		}

		switch e := x.(type) {
		case *RefExpr:
			id, found := g.names[e.Name]
			if !found {
				err = unknownRuleError(rule, e.Name)
				return
			}
			e.rule = id

		case *SeqExpr:
			if len(e.Exprs) == 0 {
				err = emptyExprError(rule, "sequence")
			}

		case *ChoiceExpr:
			if len(e.Exprs) == 0 {
				err = emptyExprError(rule, "choice")
			}

		case *RepExpr:
			if e.Min < 0 || (e.Max >= 0 && e.Max < e.Min) {
				err = repBoundsError(rule, e.Min, e.Max)
			}

		case *SetExpr:
			if len(e.Chars) == 0 && len(e.Ranges) == 0 {
				err = emptyExprError(rule, "character set")
			}
		}
	})
	return
}

func walkExprs(x Expr, f func(Expr)) {
	if x == nil {
		return
	}

	f(x)
	switch e := x.(type) {
	case *SeqExpr:
		for _, s := range e.Exprs {
			walkExprs(s, f)
		}
	case *ChoiceExpr:
		for _, s := range e.Exprs {
			walkExprs(s, f)
		}
	case *RepExpr:
		walkExprs(e.Expr, f)
	case *AndExpr:
		walkExprs(e.Expr, f)
	case *NotExpr:
		walkExprs(e.Expr, f)
	case *MustExpr:
		walkExprs(e.Expr, f)
	case *TryExpr:
		walkExprs(e.Expr, f)
	}
}
