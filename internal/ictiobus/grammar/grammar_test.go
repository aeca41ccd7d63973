package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/rustlite/internal/ictiobus/token"
)

func Test_BuildRustLite_Succeeds(t *testing.T) {
	g, err := BuildRustLite()
	require.NoError(t, err)
	assert.Equal(t, NTProgram, g.StartSymbol())
	assert.True(t, g.IsNonTerminal(NTFuncDecl))
	assert.True(t, g.IsTerminal(p(token.KwFn)))
	assert.False(t, g.IsTerminal(NTFuncDecl))
}

func Test_BuildRustLite_MarkerNonterminalsAreEpsilonOnly(t *testing.T) {
	g, err := BuildRustLite()
	require.NoError(t, err)

	for _, nt := range []string{NTBeginMarker, NTEndMarker, NTReDoMarker, NTLoopMarker, NTLoopExprMarker} {
		rule, ok := g.Rule(nt)
		require.True(t, ok, "missing rule for %s", nt)
		require.Len(t, rule.Productions, 1, "%s should have exactly one production", nt)
		assert.Empty(t, rule.Productions[0], "%s should be an epsilon production", nt)
	}
}

func Test_Builder_Build_RejectsUnknownSymbol(t *testing.T) {
	b := NewBuilder("S")
	b.Terminal("a")
	b.Rule("S", Production{"a", "Undeclared"})
	_, err := b.Build()
	assert.Error(t, err)
}

func Test_FirstEngine_TerminalIsItsOwnFirst(t *testing.T) {
	g, err := BuildRustLite()
	require.NoError(t, err)
	fe := NewFirstEngine(g)

	first, err := fe.First([]string{p(token.KwReturn)})
	require.NoError(t, err)
	assert.True(t, first.Has(p(token.KwReturn)))
	assert.Len(t, first.Elements(), 1)
}

func Test_FirstEngine_ParamListCanBeEmpty(t *testing.T) {
	g, err := BuildRustLite()
	require.NoError(t, err)
	fe := NewFirstEngine(g)

	first, err := fe.First([]string{NTParamList})
	require.NoError(t, err)
	assert.True(t, first.Has(Epsilon), "param_list is nullable, FIRST must contain epsilon")
	assert.True(t, first.Has(p(token.Identifier)))
	assert.True(t, first.Has(p(token.KwMut)))
}

func Test_FirstEngine_ValueExprFirstIncludesEveryLeadingTerminal(t *testing.T) {
	g, err := BuildRustLite()
	require.NoError(t, err)
	fe := NewFirstEngine(g)

	first, err := fe.First([]string{NTValueExpr})
	require.NoError(t, err)

	for _, want := range []string{
		p(token.OpLBracket), p(token.OpLParen), p(token.Identifier),
		p(token.IntLiteral), p(token.FloatLiteral), p(token.OpAnd),
		p(token.KwIf), p(token.KwLoop),
	} {
		assert.True(t, first.Has(want), "FIRST(value_expr) missing %s", want)
	}
	assert.False(t, first.Has(Epsilon), "value_expr is never nullable")
}

func Test_FirstEngine_UnknownSymbolErrors(t *testing.T) {
	g, err := BuildRustLite()
	require.NoError(t, err)
	fe := NewFirstEngine(g)

	_, err = fe.First([]string{"not_a_real_symbol"})
	assert.Error(t, err)
}
