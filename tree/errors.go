package tree

import (
	"github.com/pzaremba/pegtree"
)

const (
	ErrUnknownPolicyRule = iota + pegtree.TreeErrors
)

func unknownPolicyRuleError(name string) *pegtree.Error {
	return pegtree.FormatError(ErrUnknownPolicyRule, "policy names unknown rule %q", name)
}
