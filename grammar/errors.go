package grammar

import (
	"github.com/pzaremba/pegtree"
)

const (
	ErrEmptyRuleName = iota + pegtree.GrammarErrors
	ErrRedefinedRule
	ErrNilRuleExpr
	ErrUnknownRule
	ErrEmptyExpr
	ErrRepBounds
)

func emptyRuleNameError() *pegtree.Error {
	return pegtree.FormatError(ErrEmptyRuleName, "rule with empty name")
}

func redefinedRuleError(name string) *pegtree.Error {
	return pegtree.FormatError(ErrRedefinedRule, "rule %q redefined", name)
}

func nilRuleExprError(name string) *pegtree.Error {
	return pegtree.FormatError(ErrNilRuleExpr, "rule %q has no expression", name)
}

func unknownRuleError(rule, ref string) *pegtree.Error {
	return pegtree.FormatError(ErrUnknownRule, "rule %q references unknown rule %q", rule, ref)
}

func emptyExprError(rule, kind string) *pegtree.Error {
	return pegtree.FormatError(ErrEmptyExpr, "rule %q contains an empty %s", rule, kind)
}

func repBoundsError(rule string, min, max int) *pegtree.Error {
	return pegtree.FormatError(ErrRepBounds, "rule %q has invalid repetition bounds %d..%d", rule, min, max)
}
