package tree_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzaremba/pegtree"
	"github.com/pzaremba/pegtree/grammar"
	"github.com/pzaremba/pegtree/parser"
	"github.com/pzaremba/pegtree/tree"
)

func newParser(t *testing.T, build func(g *grammar.Grammar)) *parser.Parser {
	t.Helper()
	g := grammar.New()
	build(g)
	p, e := parser.New(g)
	require.NoError(t, e)
	return p
}

func mustParse(t *testing.T, p *parser.Parser, text, start string, pol *tree.Policy) *tree.Node {
	t.Helper()
	n, e := tree.ParseString(p, "sample", text, start, pol)
	require.NoError(t, e)
	require.NotNil(t, n)
	require.True(t, n.IsRoot())
	return n
}

func serialize(n *tree.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *tree.Node) {
	if n.IsRoot() {
		writeChildren(b, n)
		return
	}

	b.WriteByte('(')
	b.WriteString(n.Type())
	if n.HasContent() {
		fmt.Fprintf(b, " %q", n.Text())
	}
	if len(n.Children()) > 0 {
		b.WriteByte(' ')
		writeChildren(b, n)
	}
	b.WriteByte(')')
}

func writeChildren(b *strings.Builder, n *tree.Node) {
	for i, c := range n.Children() {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeNode(b, c)
	}
}

func digitsParser(t *testing.T) *parser.Parser {
	return newParser(t, func(g *grammar.Grammar) {
		g.Rule("number", grammar.Plus(grammar.Ref("digit")))
		g.Rule("digit", grammar.Range('0', '9'))
	})
}

func TestSelectedLeaves(t *testing.T) {
	p := digitsParser(t)
	pol := tree.NewPolicy().Store("digit")
	root := mustParse(t, p, "123", "number", pol)

	assert.Equal(t, `(digit "1") (digit "2") (digit "3")`, serialize(root))
	require.Len(t, root.Children(), 3)
	for i, c := range root.Children() {
		assert.Equal(t, i, c.Begin().Offset())
		assert.Equal(t, i+1, c.End().Offset())
	}
}

func TestStoreAllByDefault(t *testing.T) {
	p := digitsParser(t)
	root := mustParse(t, p, "12", "number", nil)

	assert.Equal(t, `(number "12" (digit "1") (digit "2"))`, serialize(root))
}

func TestUnselectedRulesAreFlattened(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("paren", grammar.Seq(grammar.Lit("("), grammar.Ref("expr"), grammar.Lit(")")))
		g.Rule("expr", grammar.Plus(grammar.Range('a', 'z')))
	})
	pol := tree.NewPolicy().Store("expr")
	root := mustParse(t, p, "(x)", "paren", pol)

	assert.Equal(t, `(expr "x")`, serialize(root))
	assert.Equal(t, 1, root.Children()[0].Begin().Offset())
}

func TestFlatteningKeepsSourceOrder(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Star(grammar.Choice(grammar.Ref("x"), grammar.Ref("wrap"))))
		g.Rule("wrap", grammar.Seq(grammar.Lit("["), grammar.Ref("x"), grammar.Lit("]")))
		g.Rule("x", grammar.Range('a', 'z'))
	})
	pol := tree.NewPolicy().Store("x")
	root := mustParse(t, p, "a[b]c", "s", pol)

	assert.Equal(t, `(x "a") (x "b") (x "c")`, serialize(root))
	offsets := make([]int, 0, 3)
	for _, c := range root.Children() {
		offsets = append(offsets, c.Begin().Offset())
	}
	assert.Equal(t, []int{0, 2, 4}, offsets)
}

func TestFoldOne(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("expr", grammar.Seq(grammar.Ref("term"),
			grammar.Star(grammar.Seq(grammar.Lit("+"), grammar.Ref("term")))))
		g.Rule("term", grammar.Plus(grammar.Range('a', 'z')))
	})
	pol := tree.NewPolicy().FoldOne("expr").Store("term")

	root := mustParse(t, p, "x", "expr", pol)
	assert.Equal(t, `(term "x")`, serialize(root))

	root = mustParse(t, p, "x+y", "expr", pol)
	assert.Equal(t, `(expr (term "x") (term "y"))`, serialize(root))
	assert.False(t, root.Children()[0].HasContent())
}

func TestDiscardEmpty(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Seq(grammar.Ref("list"), grammar.Eof()))
		g.Rule("list", grammar.Star(grammar.Ref("item")))
		g.Rule("item", grammar.Set("ab"))
	})
	pol := tree.NewPolicy().DiscardEmpty("list").Store("item")

	root := mustParse(t, p, "", "s", pol)
	assert.Empty(t, root.Children())

	root = mustParse(t, p, "ab", "s", pol)
	assert.Equal(t, `(list (item "a") (item "b"))`, serialize(root))
}

func TestBacktrackingDiscardsPartialNodes(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Choice(
			grammar.Seq(grammar.Ref("a"), grammar.Lit("!")),
			grammar.Seq(grammar.Ref("a"), grammar.Ref("b")),
		))
		g.Rule("a", grammar.Lit("x"))
		g.Rule("b", grammar.Lit("y"))
	})
	pol := tree.NewPolicy().Store("a", "b")
	root := mustParse(t, p, "xy", "s", pol)

	assert.Equal(t, `(a "x") (b "y")`, serialize(root))
}

func TestRepetitionDiscardsFailedIteration(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Seq(
			grammar.Star(grammar.Seq(grammar.Ref("p"), grammar.Lit(";"))),
			grammar.Ref("p"),
		))
		g.Rule("p", grammar.Range('a', 'z'))
	})
	pol := tree.NewPolicy().Store("p")
	root := mustParse(t, p, "a;b", "s", pol)

	assert.Equal(t, `(p "a") (p "b")`, serialize(root))
}

func TestGuardedScopeSuccess(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Seq(grammar.Lit("["), grammar.Try(grammar.Ref("x")), grammar.Lit("]")))
		g.Rule("x", grammar.Range('a', 'z'))
	})
	pol := tree.NewPolicy().Store("x")
	root := mustParse(t, p, "[a]", "s", pol)

	assert.Equal(t, `(x "a")`, serialize(root))
}

func TestGuardedScopeAbortLeavesNoResidue(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Seq(
			grammar.Ref("a"),
			grammar.Opt(grammar.Try(grammar.Seq(grammar.Ref("b"), grammar.Must(grammar.Lit("!"))))),
			grammar.Ref("tail"),
		))
		g.Rule("a", grammar.Lit("x"))
		g.Rule("b", grammar.Lit("y"))
		g.Rule("tail", grammar.Lit("yz"))
	})
	pol := tree.NewPolicy().Store("a", "b", "tail")
	root := mustParse(t, p, "xyz", "s", pol)

	assert.Equal(t, `(a "x") (tail "yz")`, serialize(root))
}

func TestGuardedScopeFailureLeavesNoResidue(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Seq(
			grammar.Ref("a"),
			grammar.Opt(grammar.Try(grammar.Seq(grammar.Ref("b"), grammar.Lit("!")))),
			grammar.Ref("tail"),
		))
		g.Rule("a", grammar.Lit("x"))
		g.Rule("b", grammar.Lit("y"))
		g.Rule("tail", grammar.Lit("yz"))
	})
	pol := tree.NewPolicy().Store("a", "b", "tail")
	root := mustParse(t, p, "xyz", "s", pol)

	assert.Equal(t, `(a "x") (tail "yz")`, serialize(root))
}

func TestCustomTransform(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Star(grammar.Ref("item")))
		g.Rule("item", grammar.Range('a', 'z'))
	})
	pol := tree.NewPolicy().Apply("item", func(n *tree.Node) *tree.Node {
		if n.Text() == "b" {
			return nil
		}
		return n
	})
	root := mustParse(t, p, "abc", "s", pol)

	assert.Equal(t, `(item "a") (item "c")`, serialize(root))
}

func TestPruningEquivalence(t *testing.T) {
	p := newParser(t, func(g *grammar.Grammar) {
		g.Rule("s", grammar.Seq(grammar.Ref("keep"), grammar.Ref("noise")))
		g.Rule("keep", grammar.Plus(grammar.Range('a', 'z')))
		g.Rule("noise", grammar.Star(grammar.Ref("sp")))
		g.Rule("sp", grammar.Lit(" "))
	})
	pol := tree.NewPolicy().Store("keep")

	plain := serialize(mustParse(t, p, "ab  ", "s", pol.Prune(false)))
	pruned := serialize(mustParse(t, p, "ab  ", "s", pol.Prune(true)))
	assert.Equal(t, `(keep "ab")`, plain)
	assert.Equal(t, plain, pruned)
}

func TestParseFailureReturnsNoTree(t *testing.T) {
	p := digitsParser(t)
	n, e := tree.ParseString(p, "sample", "abc", "number", nil)
	assert.Nil(t, n)
	require.IsType(t, &pegtree.Error{}, e)
	assert.Equal(t, parser.ErrUnexpectedInput, e.(*pegtree.Error).Code)
}

func TestUnknownPolicyRule(t *testing.T) {
	p := digitsParser(t)
	pol := tree.NewPolicy().Store("nope")
	n, e := tree.ParseString(p, "sample", "1", "number", pol)
	assert.Nil(t, n)
	require.IsType(t, &pegtree.Error{}, e)
	assert.Equal(t, tree.ErrUnknownPolicyRule, e.(*pegtree.Error).Code)
}

func TestSecondaryParsePass(t *testing.T) {
	outer := newParser(t, func(g *grammar.Grammar) {
		g.Rule("list", grammar.Seq(grammar.Ref("stmt"),
			grammar.Star(grammar.Seq(grammar.Lit(";"), grammar.Ref("stmt")))))
		g.Rule("stmt", grammar.Plus(grammar.Choice(
			grammar.Range('a', 'z'), grammar.Range('0', '9'), grammar.Lit("="))))
	})
	root := mustParse(t, outer, "a=1;bb=22", "list", tree.NewPolicy().Store("stmt"))
	require.Len(t, root.Children(), 2)
	stmt := root.Children()[1]
	require.Equal(t, "bb=22", stmt.Text())

	inner := newParser(t, func(g *grammar.Grammar) {
		g.Rule("asg", grammar.Seq(grammar.Ref("key"), grammar.Lit("="), grammar.Ref("num"), grammar.Eof()))
		g.Rule("key", grammar.Plus(grammar.Range('a', 'z')))
		g.Rule("num", grammar.Plus(grammar.Range('0', '9')))
	})
	sub, e := tree.Parse(inner, stmt.Input(), "asg", tree.NewPolicy().Store("key", "num"))
	require.NoError(t, e)

	assert.Equal(t, `(key "bb") (num "22")`, serialize(sub))
	key, num := sub.Children()[0], sub.Children()[1]
	assert.Equal(t, 4, key.Begin().Offset())
	assert.Equal(t, 7, num.Begin().Offset())
	assert.Equal(t, 1, num.Begin().Line())
	assert.Equal(t, 8, num.Begin().Col())
	assert.Equal(t, "sample", num.Begin().SourceName())
}

func TestWalk(t *testing.T) {
	p := digitsParser(t)
	root := mustParse(t, p, "12", "number", nil)

	var visited []string
	ok := tree.Walk(root, func(stat tree.WalkStat) tree.WalkerFlags {
		visited = append(visited, fmt.Sprintf("%d:%s", stat.Level, stat.Node.Type()))
		return 0
	})
	assert.True(t, ok)
	assert.Equal(t, []string{"0:", "1:number", "2:digit", "2:digit"}, visited)
}

func TestWalkSkipAndStop(t *testing.T) {
	p := digitsParser(t)
	root := mustParse(t, p, "12", "number", nil)

	count := 0
	ok := tree.Walk(root, func(stat tree.WalkStat) tree.WalkerFlags {
		count++
		if stat.Node.Type() == "number" {
			return tree.WalkerSkipChildren
		}
		return 0
	})
	assert.True(t, ok)
	assert.Equal(t, 2, count)

	count = 0
	ok = tree.Walk(root, func(stat tree.WalkStat) tree.WalkerFlags {
		count++
		return tree.WalkerStop
	})
	assert.False(t, ok)
	assert.Equal(t, 1, count)
}

func TestFind(t *testing.T) {
	p := digitsParser(t)
	root := mustParse(t, p, "12", "number", nil)

	digit, found := p.Grammar().RuleID("digit")
	require.True(t, found)
	n := tree.Find(root, digit)
	require.NotNil(t, n)
	assert.Equal(t, "1", n.Text())

	assert.Nil(t, tree.Find(root, 99))
}
