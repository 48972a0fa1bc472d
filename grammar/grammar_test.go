package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzaremba/pegtree"
)

func TestRuleIDs(t *testing.T) {
	g := New()
	digit := g.Rule("digit", Range('0', '9'))
	number := g.Rule("number", Plus(Ref("digit")))

	assert.Equal(t, 0, digit)
	assert.Equal(t, 1, number)
	assert.Equal(t, 2, g.RuleCount())
	assert.Equal(t, "digit", g.Name(digit))
	assert.Equal(t, "number", g.Name(number))
	assert.Equal(t, "", g.Name(NoRule))
	assert.Equal(t, "", g.Name(100))

	id, found := g.RuleID("number")
	assert.True(t, found)
	assert.Equal(t, number, id)
	_, found = g.RuleID("missing")
	assert.False(t, found)

	require.NoError(t, g.Validate())
}

func TestRefResolution(t *testing.T) {
	g := New()
	ref := Ref("b").(*RefExpr)
	g.Rule("a", Seq(ref, Lit(";")))
	b := g.Rule("b", Lit("x"))

	assert.Equal(t, NoRule, ref.Rule())
	require.NoError(t, g.Validate())
	assert.Equal(t, b, ref.Rule())
}

func TestSubs(t *testing.T) {
	g := New()
	a := g.Rule("a", Choice(Seq(Ref("b"), Ref("c")), Ref("b"), Try(Must(Ref("d")))))
	b := g.Rule("b", Lit("b"))
	c := g.Rule("c", Star(Ref("b")))
	d := g.Rule("d", Not(Any()))
	require.NoError(t, g.Validate())

	assert.Equal(t, []int{b, c, d}, g.Subs(a))
	assert.Empty(t, g.Subs(b))
	assert.Equal(t, []int{b}, g.Subs(c))
	assert.Empty(t, g.Subs(d))
}

func checkError(t *testing.T, g *Grammar, code int) {
	t.Helper()
	e := g.Validate()
	require.Error(t, e)
	pe, is := e.(*pegtree.Error)
	require.True(t, is)
	assert.Equal(t, code, pe.Code)
}

func TestValidationErrors(t *testing.T) {
	g := New()
	g.Rule("", Lit("x"))
	checkError(t, g, ErrEmptyRuleName)

	g = New()
	g.Rule("a", Lit("x"))
	g.Rule("a", Lit("y"))
	checkError(t, g, ErrRedefinedRule)

	g = New()
	g.Rule("a", nil)
	checkError(t, g, ErrNilRuleExpr)

	g = New()
	g.Rule("a", Ref("missing"))
	checkError(t, g, ErrUnknownRule)

	g = New()
	g.Rule("a", Seq())
	checkError(t, g, ErrEmptyExpr)

	g = New()
	g.Rule("a", Choice())
	checkError(t, g, ErrEmptyExpr)

	g = New()
	g.Rule("a", Set(""))
	checkError(t, g, ErrEmptyExpr)

	g = New()
	g.Rule("a", Rep(Lit("x"), 3, 2))
	checkError(t, g, ErrRepBounds)
}

func TestValidateIdempotent(t *testing.T) {
	g := New()
	g.Rule("a", Opt(Ref("a")))
	require.NoError(t, g.Validate())
	require.NoError(t, g.Validate())

	g.Rule("b", Eof())
	require.NoError(t, g.Validate())
}
