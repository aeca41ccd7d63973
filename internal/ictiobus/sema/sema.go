// Package sema implements the semantic analyzer (§4.5-§4.9): a symbol
// table pass, type/borrow checking, and three-address quadruple emission
// with backpatching, all driven from package driver's reduce callback.
// Handlers are dispatched on the reducing nonterminal's name (and, where a
// nonterminal has more than one production, on the shape of its children)
// rather than on the grammar's raw integer production index: the index
// assigned by grammar.Builder.Build is purely an artifact of declaration
// order in rustgrammar.go, and keying behavior to it would silently break
// on any reordering there. This mirrors the same outcome the teacher's
// translation/binding.go SDD bindings get from binding by name rather than
// position. Errors here are collected into Diagnostics, never fatal to the
// pass (§4.5) — only lex/parse/grammar errors abort a run.
package sema

import (
	"fmt"

	"github.com/ashgrove/rustlite/internal/ictiobus/grammar"
	"github.com/ashgrove/rustlite/internal/ictiobus/ir"
	"github.com/ashgrove/rustlite/internal/ictiobus/parsetree"
	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
	"github.com/ashgrove/rustlite/internal/ictiobus/rtype"
	"github.com/ashgrove/rustlite/internal/ictiobus/symbols"
)

// borrowState tracks outstanding reference counts for one variable, scoped
// to the enclosing function (§4.5: borrow conflicts are a per-function
// concern in this module; references are never assumed to outlive the
// function they were taken in, so counts reset at EnterScope for a new
// func_header rather than being released at each inner block's exit).
type borrowState struct {
	shared int
	unique int
}

// loopRecord is the per-loop bookkeeping pushed by a *Marker nonterminal
// and popped once the enclosing loop construct finishes reducing.
type loopRecord struct {
	beginQuad  int
	breakList  []int
	wantsValue bool
	haveValue  bool
	valueTemp  string
	valueType  rtype.Type
}

// declHead is VarDeclHead's synthesized payload.
type declHead struct {
	Name string
	Mut  bool
}

// Analyzer holds all mutable state threaded through the single
// left-to-right reduction pass: the emitter, the symbol table, collected
// diagnostics, and the small helper stacks (loop records, pending
// select-expression temporaries) markers use to carry context across
// sibling boundaries that a strictly child-reading node can't reach
// directly (§4.6 design note; see package driver's doc comment).
type Analyzer struct {
	Emit *ir.Emitter
	Syms *symbols.Table

	Diagnostics []*rerrors.SemanticError

	loopStack []*loopRecord

	// selectResults holds, per nested conditional_expr (value if/else)
	// still being reduced, the result temp both arms assign into, so the
	// expression has one Place regardless of which arm ran. The skip jump
	// itself lives on end_marker's own NextList (§4.9 marker handling,
	// generic across if_stmt and conditional_expr) rather than a separate
	// stack here. Pushed by select_cond, consumed by true_arm/false_arm/
	// conditional_expr in strict LIFO order matching the grammar's nesting.
	selectResults []string

	// currentFuncName/currentReturnType describe the function whose body is
	// currently being walked, for return-statement type checking and
	// diagnostic text.
	currentFuncName   string
	currentReturnType rtype.Type

	borrows map[string]*borrowState

	// pending holds "let x;" bindings whose type is unknown until their
	// first assignment resolves it (§4.5, §4.10). Keyed by name; a
	// re-declaration in the same or an inner scope simply overwrites the
	// entry (shadowing), and a successful first assignment deletes it.
	pending map[string]*parsetree.Node
}

// New returns a fresh analyzer ready to drive a single compilation unit.
func New() *Analyzer {
	return &Analyzer{
		Emit:    ir.NewEmitter(),
		Syms:    symbols.NewTable(),
		borrows: map[string]*borrowState{},
		pending: map[string]*parsetree.Node{},
	}
}

// Reset restores the analyzer to the state New returns, so one Analyzer
// value can drive several independent compilations (§4.5/§8: the pass
// must be fully restartable, with no leftover scopes, loop records, or
// diagnostics bleeding into the next run).
func (a *Analyzer) Reset() {
	a.Emit = ir.NewEmitter()
	a.Syms = symbols.NewTable()
	a.Diagnostics = nil
	a.loopStack = nil
	a.selectResults = nil
	a.currentFuncName = ""
	a.currentReturnType = rtype.Type{}
	a.borrows = map[string]*borrowState{}
	a.pending = map[string]*parsetree.Node{}
}

func (a *Analyzer) errorf(kind rerrors.SemanticKind, format string, args ...any) {
	a.Diagnostics = append(a.Diagnostics, rerrors.NewSemanticError(kind, rerrors.Position{}, fmt.Sprintf(format, args...)))
}

// OnReduce is the driver.ReduceFunc this analyzer exposes; pass it directly
// to driver.Parse.
func (a *Analyzer) OnReduce(prod grammar.Indexed, node *parsetree.Node) {
	c := node.Children
	switch node.Symbol {

	case grammar.NTJFuncStart:
		idx := a.Emit.Emit(ir.OpJump, "", "", "")
		node.Attrs.NextList = []int{idx}
	case grammar.NTProgram:
		a.reduceProgram(c)

	case grammar.NTFuncHeader:
		a.reduceFuncHeader(c, node)
	case grammar.NTReturnType:
		if len(c) == 0 {
			node.Attrs.Type = rtype.UnitType
		} else {
			node.Attrs.Type = c[1].Attrs.Type
		}
	case grammar.NTParamList:
		a.reduceParamList(c, node)
	case grammar.NTParam:
		head := c[0].Attrs.Extra.(declHead)
		typ := c[2].Attrs.Type
		node.Attrs.Extra = []symbols.Symbol{{Name: head.Name, Kind: symbols.KindParameter, Type: typ, Mut: head.Mut}}
	case grammar.NTVarDeclHead:
		if len(c) == 2 {
			node.Attrs.Extra = declHead{Name: c[1].Source.Lexeme, Mut: true}
		} else {
			node.Attrs.Extra = declHead{Name: c[0].Source.Lexeme, Mut: false}
		}
	case grammar.NTFuncDecl:
		a.reduceFuncDecl(c, node)

	case grammar.NTType:
		a.reduceType(c, node)
	case grammar.NTTupleTypeInner:
		if len(c) == 0 {
			node.Attrs.Extra = []rtype.Type{}
		} else {
			node.Attrs.Extra = append([]rtype.Type{c[0].Attrs.Type}, c[2].Attrs.Extra.([]rtype.Type)...)
		}
	case grammar.NTTupleTypeList:
		switch len(c) {
		case 0:
			node.Attrs.Extra = []rtype.Type{}
		case 1:
			node.Attrs.Extra = []rtype.Type{c[0].Attrs.Type}
		default:
			node.Attrs.Extra = append([]rtype.Type{c[0].Attrs.Type}, c[2].Attrs.Extra.([]rtype.Type)...)
		}

	case grammar.NTBlock:
		node.Attrs.NextList = c[1].Attrs.NextList
		node.Attrs.LastReturn = c[1].Attrs.LastReturn
		node.Attrs.Type = rtype.UnitType
	case grammar.NTStmtList:
		a.reduceStmtList(c, node)
	case grammar.NTExprBlock:
		node.Attrs.NextList = c[1].Attrs.NextList
		node.Attrs.Place = c[1].Attrs.Place
		node.Attrs.Type = c[1].Attrs.Type
	case grammar.NTStmtListExpr:
		a.reduceStmtListExpr(c, node)
	case grammar.NTLoopExprBlock:
		a.reduceLoopExprBlock(c, node)

	case grammar.NTStmtSemi:
		a.reduceStmtSemi(c, node)
	case grammar.NTBareExprStmt:
		node.Attrs = c[0].Attrs

	case grammar.NTVarDeclStmt:
		a.reduceVarDeclStmt(c, node)
	case grammar.NTVarDeclAssign:
		a.reduceVarDeclAssign(c, node)
	case grammar.NTAssignStmt:
		a.reduceAssignStmt(c, node)
	case grammar.NTReturnStmt:
		a.reduceReturnStmt(c, node)

	case grammar.NTIfStmt:
		a.reduceIfStmt(c, node)
	case grammar.NTElsePart:
		a.reduceElsePart(c, node)

	case grammar.NTLoopStmt:
		a.reduceLoopStmt(c, node)
	case grammar.NTForHeader:
		a.reduceForHeader(c, node)
	case grammar.NTIterableStruct:
		a.reduceIterableStruct(c, node)

	case grammar.NTBreakStmt:
		node.Attrs = c[0].Attrs
	case grammar.NTBreakStmtExpr:
		a.reduceBreakStmtExpr(c, node)
	case grammar.NTBreakStmtNoExpr:
		a.reduceBreakStmtNoExpr(node)
	case grammar.NTContinueStmt:
		a.reduceContinueStmt(node)

	case grammar.NTPlaceExpr:
		a.reducePlaceExpr(c, node)
	case grammar.NTPlaceExprBase:
		a.reducePlaceExprBase(c, node)

	case grammar.NTValueExpr:
		a.reduceValueExpr(c, node)
	case grammar.NTStmtValueExpr:
		a.reduceValueExpr(c, node)
	case grammar.NTCondExpr:
		a.reduceCondExpr(c, node)
	case grammar.NTConditionalExpr:
		a.reduceConditionalExpr(c, node)
	case grammar.NTSelectCond:
		a.reduceSelectCond(c, node)
	case grammar.NTTrueArm:
		a.reduceArm(c, node, true)
	case grammar.NTFalseArm:
		a.reduceArm(c, node, false)

	case grammar.NTLogicalOrExpr:
		a.reduceShortCircuit(c, node, ir.OpOr, true)
	case grammar.NTLogicalAndExpr:
		a.reduceShortCircuit(c, node, ir.OpAnd, false)
	case grammar.NTRelationalExpr:
		a.reduceRelational(c, node)
	case grammar.NTAdditiveExpr:
		a.reduceArith(c, node)
	case grammar.NTMultExpr:
		a.reduceArith(c, node)
	case grammar.NTUnaryExpr:
		a.reduceUnary(c, node)
	case grammar.NTPostfixExpr:
		a.reducePostfix(c, node)
	case grammar.NTPrimaryExpr:
		if len(c) == 3 {
			node.Attrs = c[1].Attrs
		} else {
			node.Attrs = c[0].Attrs
		}
	case grammar.NTLoopExpr:
		a.reduceLoopExpr(c, node)

	case grammar.NTArrayElemList:
		a.reduceArrayElemList(c, node)
	case grammar.NTTupleElemInner:
		a.reduceTupleElemInner(c, node)
	case grammar.NTTupleElemList:
		a.reduceTupleElemList(c, node)
	case grammar.NTArgList:
		a.reduceArgList(c, node)

	case grammar.NTRelOp, grammar.NTAddOp, grammar.NTMulOp, grammar.NTLogicOrOp, grammar.NTLogicAndOp:
		node.Attrs.Place = c[0].Source.Lexeme
	case grammar.NTUnaryOp:
		if len(c) == 2 {
			node.Attrs.Place = "&mut"
		} else {
			node.Attrs.Place = "&"
		}

	case grammar.NTBeginMarker, grammar.NTEndMarker, grammar.NTReDoMarker:
		node.Attrs.QuadIndex = a.Emit.NextQuad()
		if node.Symbol == grammar.NTEndMarker {
			idx := a.Emit.Emit(ir.OpJump, "", "", "")
			node.Attrs.NextList = []int{idx}
		}
	case grammar.NTLoopMarker:
		node.Attrs.QuadIndex = a.Emit.NextQuad()
		a.loopStack = append(a.loopStack, &loopRecord{beginQuad: node.Attrs.QuadIndex})
		a.Syms.EnterScope()
	case grammar.NTLoopExprMarker:
		node.Attrs.QuadIndex = a.Emit.NextQuad()
		a.loopStack = append(a.loopStack, &loopRecord{
			beginQuad:  node.Attrs.QuadIndex,
			wantsValue: true,
			valueTemp:  a.Emit.NewTemp(),
			valueType:  rtype.UninitType,
		})
		a.Syms.EnterScope()
	}
}

func (a *Analyzer) popLoop() *loopRecord {
	rec := a.loopStack[len(a.loopStack)-1]
	a.loopStack = a.loopStack[:len(a.loopStack)-1]
	return rec
}

func (a *Analyzer) innermostLoop() *loopRecord {
	if len(a.loopStack) == 0 {
		return nil
	}
	return a.loopStack[len(a.loopStack)-1]
}
