package lrtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/rustlite/internal/ictiobus/grammar"
)

func sumGrammar(t *testing.T) grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("E")
	b.Terminal("id")
	b.Terminal("+")
	b.Rule("E", grammar.Production{"E", "+", "T"}, grammar.Production{"T"})
	b.Rule("T", grammar.Production{"id"})
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func Test_Build_LeftRecursiveSum_NoConflicts(t *testing.T) {
	g := sumGrammar(t)
	table, err := Build(g)
	require.NoError(t, err)

	start := table.Start
	act := table.Action(start, "id")
	assert.Equal(t, ActionShift, act.Kind)
}

func Test_Build_ReduceReduceConflict_Errors(t *testing.T) {
	b := grammar.NewBuilder("S")
	b.Terminal("a")
	b.Rule("S", grammar.Production{"A"}, grammar.Production{"B"})
	b.Rule("A", grammar.Production{"a"})
	b.Rule("B", grammar.Production{"a"})
	g, err := b.Build()
	require.NoError(t, err)

	_, err = Build(g)
	assert.Error(t, err)
}

func Test_Table_Goto_UnknownTransitionIsFalse(t *testing.T) {
	g := sumGrammar(t)
	table, err := Build(g)
	require.NoError(t, err)

	_, ok := table.Goto(table.Start, "nonexistent_symbol")
	assert.False(t, ok)
}

func Test_Table_String_RendersWithoutPanicking(t *testing.T) {
	g := sumGrammar(t)
	table, err := Build(g)
	require.NoError(t, err)
	assert.NotEmpty(t, table.String())
}
