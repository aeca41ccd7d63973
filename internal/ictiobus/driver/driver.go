// Package driver implements the canonical LR shift-reduce engine (§4.4,
// §4.6): it walks the ACTION/GOTO tables built by package lrtable,
// maintaining a state stack and a parse-tree node stack, and invokes a
// caller-supplied reduce callback on every reduction so the semantic
// analyzer in package sema can synthesize attributes (and emit quadruples)
// as each production reduces rather than in a separate post-parse walk —
// required for the backpatching scheme's marker nonterminals (§4.9), whose
// side effects must happen at the exact point in the token stream where
// they're reduced. Grounded on the teacher's parse/lr.go lrParser.Parse
// shift/reduce loop, restructured around a single node stack (rather than
// separate token-buffer/subtree-root stacks) since this module attaches
// semantic state directly to each node as it's built.
package driver

import (
	"github.com/ashgrove/rustlite/internal/ictiobus/grammar"
	"github.com/ashgrove/rustlite/internal/ictiobus/lrtable"
	"github.com/ashgrove/rustlite/internal/ictiobus/parsetree"
	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
	"github.com/ashgrove/rustlite/internal/ictiobus/token"
)

// ReduceFunc is invoked once per reduction, immediately after the node's
// Children are attached but before it is pushed back onto the node stack.
// It receives the production being reduced and the freshly built node, and
// may mutate node.Attrs. It has no access to the node stack below the node;
// marker productions that need an enclosing context get it from package
// sema's own helper stacks instead.
type ReduceFunc func(prod grammar.Indexed, node *parsetree.Node)

// Parse runs the shift-reduce loop over tokens against table, calling
// onReduce for every reduction. Returns the finished parse tree rooted at
// the grammar's original (pre-augmentation) start symbol.
func Parse(table lrtable.Table, tokens []token.Token, onReduce ReduceFunc) (*parsetree.Node, error) {
	var stateStack []string
	stateStack = append(stateStack, table.Start)

	var nodeStack []*parsetree.Node

	pos := 0
	next := func() token.Token {
		if pos >= len(tokens) {
			return token.New(token.EOF, "$", 0, 0)
		}
		tok := tokens[pos]
		pos++
		return tok
	}

	a := next()

	for {
		s := stateStack[len(stateStack)-1]
		act := table.Action(s, a.Kind.ID())

		switch act.Kind {
		case lrtable.ActionShift:
			nodeStack = append(nodeStack, parsetree.NewLeaf(a))
			stateStack = append(stateStack, act.State)
			a = next()

		case lrtable.ActionReduce:
			prod := table.Grammar().Production(act.ProdIdx)
			n := len(prod.Body)

			children := make([]*parsetree.Node, n)
			copy(children, nodeStack[len(nodeStack)-n:])
			nodeStack = nodeStack[:len(nodeStack)-n]
			stateStack = stateStack[:len(stateStack)-n]

			node := parsetree.NewInternal(prod.NonTerminal, children)
			if onReduce != nil {
				onReduce(prod, node)
			}
			nodeStack = append(nodeStack, node)

			t := stateStack[len(stateStack)-1]
			toPush, ok := table.Goto(t, prod.NonTerminal)
			if !ok {
				return nil, rerrors.NewInvalidGotoError(t, prod.NonTerminal)
			}
			stateStack = append(stateStack, toPush)

		case lrtable.ActionAccept:
			return nodeStack[len(nodeStack)-1], nil

		default:
			expected := expectedTerminals(table, s)
			return nil, rerrors.NewUnexpectedError(a.String(), expected, nil, rerrors.Position{Line: a.Line, Column: a.Column})
		}
	}
}

// expectedTerminals lists every terminal with a non-error ACTION cell in
// state s, for the diagnostic attached to a syntax error.
func expectedTerminals(table lrtable.Table, s string) []string {
	var out []string
	for _, t := range table.Grammar().Terminals() {
		if table.Action(s, t).Kind != lrtable.ActionError {
			out = append(out, t)
		}
	}
	if table.Action(s, "$").Kind != lrtable.ActionError {
		out = append(out, "$")
	}
	return out
}
