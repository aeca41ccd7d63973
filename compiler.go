// Package rustlite wires the lexer, grammar/table builder, parser driver,
// and semantic analyzer (internal/ictiobus/...) into a single Compile
// entry point. It is the only exported surface of the core library; every
// subsystem it orchestrates is otherwise internal (§6 of spec.md: the
// contract is Compile in, Result out, nothing else).
package rustlite

import (
	"fmt"

	"github.com/ashgrove/rustlite/internal/ictiobus/driver"
	"github.com/ashgrove/rustlite/internal/ictiobus/grammar"
	"github.com/ashgrove/rustlite/internal/ictiobus/ir"
	"github.com/ashgrove/rustlite/internal/ictiobus/lexer"
	"github.com/ashgrove/rustlite/internal/ictiobus/lrtable"
	"github.com/ashgrove/rustlite/internal/ictiobus/parsetree"
	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
	"github.com/ashgrove/rustlite/internal/ictiobus/sema"
	"github.com/ashgrove/rustlite/internal/ictiobus/token"
)

// Result bundles everything a caller of Compile might want to inspect:
// the token stream, the parse tree, the emitted quadruple program, and any
// semantic diagnostics. A non-nil error from Compile means the tokens or
// tree are incomplete or absent (lex/parse failed); semantic diagnostics,
// by contrast, never abort a run (§4.5) and are always returned alongside
// a complete tree and quad program.
type Result struct {
	Tokens      []token.Token
	Tree        *parsetree.Node
	Table       lrtable.Table
	Quads       []ir.Quadruple
	Diagnostics []*rerrors.SemanticError
}

// These variables hold the single canonical grammar and its LR(1) table,
// built lazily on first use. The grammar is fixed for this module (it
// lexes and parses exactly one language), so there is no per-call
// variation to justify rebuilding it on every Compile.
var (
	builtGrammar grammar.Grammar
	builtTable   lrtable.Table
	buildErr     error
	built        bool
)

func ensureTable() (lrtable.Table, error) {
	if built {
		return builtTable, buildErr
	}
	built = true
	g, err := grammar.BuildRustLite()
	if err != nil {
		buildErr = fmt.Errorf("building grammar: %w", err)
		return lrtable.Table{}, buildErr
	}
	builtGrammar = g
	t, err := lrtable.Build(g)
	if err != nil {
		buildErr = fmt.Errorf("building LR(1) table: %w", err)
		return lrtable.Table{}, buildErr
	}
	builtTable = t
	return builtTable, nil
}

// Compile lexes, parses, and semantically analyzes source, returning the
// Result built so far along with the first error that stopped the
// pipeline. Lex and parse errors are fatal (nothing further runs); a
// semantic analysis always runs to completion and reports every
// diagnostic it collects rather than stopping at the first one.
func Compile(source string) (Result, error) {
	var res Result

	toks, err := lexer.Tokenize(source)
	if err != nil {
		return res, fmt.Errorf("lexing: %w", err)
	}
	res.Tokens = toks

	table, err := ensureTable()
	if err != nil {
		return res, err
	}
	res.Table = table

	an := sema.New()
	tree, err := driver.Parse(table, toks, an.OnReduce)
	if err != nil {
		return res, fmt.Errorf("parsing: %w", err)
	}
	res.Tree = tree

	res.Quads = an.Emit.Quads
	res.Diagnostics = an.Diagnostics

	return res, nil
}
