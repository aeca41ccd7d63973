// Package parsetree holds the parse tree node built by the driver and the
// synthesized-attribute bag each reduction attaches to it. Structurally
// grounded on the teacher's types/tree.go ParseTree (Terminal/Value/
// Children, same leveled String() rendering), generalized here with an
// Attrs payload since this module's semantic analyzer annotates nodes with
// backpatch lists and quadruple addresses rather than leaving them bare.
package parsetree

import (
	"fmt"
	"strings"

	"github.com/ashgrove/rustlite/internal/ictiobus/rtype"
	"github.com/ashgrove/rustlite/internal/ictiobus/support"
	"github.com/ashgrove/rustlite/internal/ictiobus/token"
)

const (
	treeLevelPrefix     = "  |%s: "
	treeLevelPrefixLast = `  \%s: `
	treeLevelPadChar    = '-'
	treeLevelPadAmount  = 3
)

// Attrs is the synthesized-attribute bag carried by a reduced nonterminal
// node: the place (temporary or variable holding its value), its static
// type, and the backpatch lists used for control-flow lowering (§4.9).
// Fields are populated only as needed by the production that produced the
// node; zero values (nil lists, empty Place) mean "not applicable here".
type Attrs struct {
	Place string
	Type  rtype.Type

	TrueList  []int
	FalseList []int
	NextList  []int
	BreakList []int

	// QuadIndex is the quad address a marker nonterminal captured
	// (next_quad at its reduction time).
	QuadIndex int

	// LastReturn reports whether this statement/block unconditionally ends
	// in a return statement, propagated up stmt_list/stmt_semi/block so
	// func_decl can flag a non-unit function that falls off the end
	// without returning a value (§4.5, MissingReturn).
	LastReturn bool

	// Extra carries synthesized payloads that don't fit the fields above:
	// []symbols.Symbol for a param_list, []rtype.Type for a
	// tuple_type_list, []*Node for an argument_list or the element list of
	// an array/tuple literal, and payload types declared in package sema
	// for the remaining nonterminals that need one.
	Extra any
}

// Node is one parse tree node: either a terminal (leaf, carrying the
// originating token) or a nonterminal (internal, carrying Children and an
// Attrs payload synthesized by its reduction).
type Node struct {
	Terminal bool
	Symbol   string
	Source   token.Token
	Children []*Node
	Attrs    Attrs
}

// NewLeaf builds a terminal node from a scanned token.
func NewLeaf(tok token.Token) *Node {
	return &Node{Terminal: true, Symbol: tok.Kind.ID(), Source: tok}
}

// NewInternal builds a nonterminal node over the given children.
func NewInternal(symbol string, children []*Node) *Node {
	return &Node{Symbol: symbol, Children: children}
}

func (n *Node) String() string {
	return n.leveledStr("", "")
}

func (n *Node) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	if n.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %s)", n.Source.String()))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", n.Symbol))
	}
	sb.WriteRune('\n')

	for i, child := range n.Children {
		last := i == len(n.Children)-1
		label := pad(fmt.Sprintf("%d", i))
		var cp, fp string
		if last {
			fp = contPrefix + fmt.Sprintf(treeLevelPrefixLast, label)
			cp = contPrefix + "        "
		} else {
			fp = contPrefix + fmt.Sprintf(treeLevelPrefix, label)
			cp = contPrefix + "  |     "
		}
		sb.WriteString(child.leveledStr(fp, cp))
	}
	return sb.String()
}

func pad(s string) string {
	for len([]rune(s)) < treeLevelPadAmount {
		s = string(treeLevelPadChar) + s
	}
	return s
}

// Stack is a node stack built on support.Stack. Package driver does not use
// it; the driver keeps its node stack as a plain slice.
type Stack = support.Stack[*Node]
