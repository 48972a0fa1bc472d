package parser

import (
	"strconv"

	"github.com/pzaremba/pegtree"
	"github.com/pzaremba/pegtree/grammar"
	"github.com/pzaremba/pegtree/source"
)

const (
	ErrUnexpectedInput = iota + pegtree.SyntaxErrors
	ErrUnexpectedEof
	ErrParseAborted
)

const (
	ErrUnknownStartRule = iota + pegtree.ParserErrors
	ErrNoGuardHooks
)

func unexpectedInputError(pos source.Pos, expected string) *pegtree.Error {
	if expected == "" {
		return pegtree.FormatErrorPos(pos, ErrUnexpectedInput, "unexpected input")
	}
	return pegtree.FormatErrorPos(pos, ErrUnexpectedInput, "unexpected input, expecting %s", expected)
}

func unexpectedEofError(pos source.Pos, expected string) *pegtree.Error {
	return pegtree.FormatErrorPos(pos, ErrUnexpectedEof, "unexpected end of input, expecting %s", expected)
}

func abortedError(pos source.Pos) *pegtree.Error {
	return pegtree.FormatErrorPos(pos, ErrParseAborted, "parse aborted")
}

func unknownStartRuleError(name string) *pegtree.Error {
	return pegtree.FormatError(ErrUnknownStartRule, "unknown start rule %q", name)
}

func noGuardHooksError() *pegtree.Error {
	return pegtree.FormatError(ErrNoGuardHooks, "grammar contains guarded scopes, hooks must implement parser.GuardHooks")
}

func quote(text string) string {
	return strconv.Quote(text)
}

func describeSet(e *grammar.SetExpr) string {
	res := ""
	if len(e.Chars) > 0 {
		res = "one of " + strconv.Quote(e.Chars)
	}
	for _, r := range e.Ranges {
		if res != "" {
			res += " or "
		}
		res += strconv.QuoteRune(rune(r[0])) + ".." + strconv.QuoteRune(rune(r[1]))
	}
	return res
}
