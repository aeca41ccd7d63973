package sema

import (
	"fmt"

	"github.com/ashgrove/rustlite/internal/ictiobus/grammar"
	"github.com/ashgrove/rustlite/internal/ictiobus/ir"
	"github.com/ashgrove/rustlite/internal/ictiobus/parsetree"
	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
	"github.com/ashgrove/rustlite/internal/ictiobus/rtype"
	"github.com/ashgrove/rustlite/internal/ictiobus/symbols"
	"github.com/ashgrove/rustlite/internal/ictiobus/token"
)

// funcHeaderInfo is func_header's synthesized payload, carried across to
// func_decl's own reduction once the body (block/expr_block) has been
// fully walked.
type funcHeaderInfo struct {
	Name       string
	ReturnType rtype.Type
	EntryQuad  int
}

// placeKind discriminates the storage shape a place_expr resolved to, so
// assign_stmt can pick the matching write-form quadruple.
type placeKind int

const (
	placeSimple placeKind = iota
	placeDeref
	placeIndex
	placeMember
)

// placeExtra is place_expr/place_expr_base's synthesized payload: enough
// to both read the location (already done eagerly, at reduction time) and,
// should this node turn out to be an assignment's left-hand side, write
// through it.
type placeExtra struct {
	Kind  placeKind
	Name  string // container name: the variable, or the base array/tuple/pointer
	Index string // index/member spelling, for placeIndex/placeMember
	Mut   bool
}

// iterableInfo is iterable_struct's synthesized payload.
type iterableInfo struct {
	IsRange bool
	Start   *parsetree.Node
	End     *parsetree.Node
}

// elseInfo is else_part's synthesized payload, carried up to if_stmt.
type elseInfo struct {
	HasElse bool
	Begin   int
	Next    []int
}

func isI32(t rtype.Type) bool {
	return t.Kind == rtype.Base && t.BaseName == "i32"
}

// reduceProgram backpatches j_func_start's jump to main's entry point, so
// the emitted program always begins execution at main regardless of
// declaration order.
func (a *Analyzer) reduceProgram(c []*parsetree.Node) {
	start := c[0]
	sym, ok := a.Syms.GetFunction("main")
	if !ok {
		a.errorf(rerrors.SemUndeclared, "program has no main function")
		return
	}
	a.Emit.Backpatch(start.Attrs.NextList, sym.EntryQuad)
}

func (a *Analyzer) reduceFuncHeader(c []*parsetree.Node, node *parsetree.Node) {
	name := c[1].Source.Lexeme
	params, _ := c[3].Attrs.Extra.([]symbols.Symbol)
	retType := c[5].Attrs.Type

	if _, exists := a.Syms.LookupCurrentScope(name); exists {
		a.errorf(rerrors.SemRedeclared, "function %q already declared", name)
	}

	paramTypes := make([]rtype.Type, len(params))
	for i, p := range params {
		paramTypes[i] = p.Type
	}

	entryQuad := a.Emit.NextQuad()
	a.Syms.Insert(symbols.Symbol{
		Name: name, Kind: symbols.KindFunction,
		ParamTypes: paramTypes, ReturnType: retType, EntryQuad: entryQuad,
	})
	a.Emit.Emit(ir.OpLabel, name, "", "")

	a.Syms.EnterScope()
	for i, p := range params {
		p.Position = i
		a.Syms.Insert(p)
	}

	a.currentFuncName = name
	a.currentReturnType = retType
	a.borrows = map[string]*borrowState{}
	node.Attrs.Extra = funcHeaderInfo{Name: name, ReturnType: retType, EntryQuad: entryQuad}
}

func (a *Analyzer) reduceFuncDecl(c []*parsetree.Node, node *parsetree.Node) {
	info := c[0].Attrs.Extra.(funcHeaderInfo)
	body := c[1]

	a.Emit.Backpatch(body.Attrs.NextList, a.Emit.NextQuad())

	switch {
	case body.Symbol == grammar.NTExprBlock:
		// the trailing expression's value IS the function's result; no
		// explicit return statement is required or expected here.
		a.Emit.Emit(ir.OpReturn, body.Attrs.Place, "", "$"+info.Name)
	case info.ReturnType.Equal(rtype.UnitType):
		a.Emit.Emit(ir.OpReturn, "", "", "$"+info.Name)
	case !body.Attrs.LastReturn:
		a.errorf(rerrors.SemMissingReturn, "function %q may finish without returning a value", info.Name)
	}

	a.Syms.ExitScope()
	node.Attrs.Type = rtype.UnitType
}

func (a *Analyzer) reduceParamList(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 0:
		node.Attrs.Extra = []symbols.Symbol{}
	case 1:
		node.Attrs.Extra = c[0].Attrs.Extra.([]symbols.Symbol)
	case 3:
		head := c[0].Attrs.Extra.([]symbols.Symbol)
		rest := c[2].Attrs.Extra.([]symbols.Symbol)
		node.Attrs.Extra = append(append([]symbols.Symbol{}, head...), rest...)
	}
}

func (a *Analyzer) reduceType(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 1:
		node.Attrs.Type = rtype.I32
	case 2:
		node.Attrs.Type = rtype.NewReference(c[1].Attrs.Type, false)
	case 3:
		if c[0].Terminal && c[0].Source.Kind == token.OpLParen {
			node.Attrs.Type = rtype.NewTuple(c[1].Attrs.Extra.([]rtype.Type)...)
		} else {
			node.Attrs.Type = rtype.NewReference(c[2].Attrs.Type, true)
		}
	case 5:
		size := c[3].Source.IntVal
		if size < 0 {
			a.errorf(rerrors.SemInvalidArraySize, "array size must be non-negative, found %d", size)
			size = 0
		}
		node.Attrs.Type = rtype.NewArray(c[1].Attrs.Type, int(size))
	}
}

func (a *Analyzer) reduceStmtList(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 0:
		node.Attrs.NextList = nil
		node.Attrs.LastReturn = false
	case 1:
		node.Attrs.NextList = c[0].Attrs.NextList
		node.Attrs.LastReturn = c[0].Attrs.LastReturn
	case 3:
		prior, marker, stmt := c[0], c[1], c[2]
		a.Emit.Backpatch(prior.Attrs.NextList, marker.Attrs.QuadIndex)
		node.Attrs.NextList = stmt.Attrs.NextList
		node.Attrs.LastReturn = stmt.Attrs.LastReturn
	}
}

func (a *Analyzer) reduceStmtListExpr(c []*parsetree.Node, node *parsetree.Node) {
	if len(c) == 1 {
		node.Attrs = c[0].Attrs
		return
	}
	prior, marker, expr := c[0], c[1], c[2]
	a.Emit.Backpatch(prior.Attrs.NextList, marker.Attrs.QuadIndex)
	node.Attrs.Place = expr.Attrs.Place
	node.Attrs.Type = expr.Attrs.Type
	node.Attrs.NextList = expr.Attrs.NextList
}

func (a *Analyzer) reduceLoopExprBlock(c []*parsetree.Node, node *parsetree.Node) {
	stmtList, marker := c[1], c[2]
	a.Emit.Backpatch(stmtList.Attrs.NextList, marker.Attrs.QuadIndex)
}

func (a *Analyzer) reduceStmtSemi(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 1:
		if c[0].Terminal {
			return
		}
		node.Attrs.NextList = c[0].Attrs.NextList
		node.Attrs.LastReturn = c[0].Symbol == grammar.NTReturnStmt
	case 2:
		node.Attrs.NextList = c[0].Attrs.NextList
		node.Attrs.LastReturn = false
	}
}

func (a *Analyzer) reduceVarDeclStmt(c []*parsetree.Node, node *parsetree.Node) {
	head := c[1].Attrs.Extra.(declHead)
	if len(c) == 5 {
		declaredType := c[3].Attrs.Type
		a.Syms.Insert(symbols.Symbol{Name: head.Name, Kind: symbols.KindVariable, Type: rtype.NewUninitialized(declaredType), Mut: head.Mut})
		delete(a.pending, head.Name)
	} else {
		a.Syms.Insert(symbols.Symbol{Name: head.Name, Kind: symbols.KindVariable, Type: rtype.UninitType, Mut: head.Mut})
		a.pending[head.Name] = node
	}
}

func (a *Analyzer) reduceVarDeclAssign(c []*parsetree.Node, node *parsetree.Node) {
	head := c[1].Attrs.Extra.(declHead)
	var declaredType *rtype.Type
	var valExpr *parsetree.Node
	if len(c) == 5 {
		valExpr = c[3]
	} else {
		t := c[3].Attrs.Type
		declaredType = &t
		valExpr = c[5]
	}

	if valExpr.Attrs.Type.Kind == rtype.Uninitialized {
		a.errorf(rerrors.SemUninitializedUse, "cannot use an uninitialized value to initialize %q", head.Name)
	} else if valExpr.Attrs.Type.Equal(rtype.UnitType) {
		a.errorf(rerrors.SemTypeMismatch, "right-hand side has no value, cannot initialize %q", head.Name)
	}

	var finalType rtype.Type
	if declaredType != nil {
		if !rtype.IsCompatible(*declaredType, valExpr.Attrs.Type) {
			a.errorf(rerrors.SemTypeMismatch, "cannot initialize %q of declared type %s with value of type %s", head.Name, *declaredType, valExpr.Attrs.Type)
		}
		finalType = *declaredType
	} else {
		finalType = valExpr.Attrs.Type
	}

	a.Syms.Insert(symbols.Symbol{Name: head.Name, Kind: symbols.KindVariable, Type: finalType, Mut: head.Mut})
	delete(a.pending, head.Name)
	a.Emit.Emit(ir.OpAssign, valExpr.Attrs.Place, "", head.Name)
}

func (a *Analyzer) reduceAssignStmt(c []*parsetree.Node, node *parsetree.Node) {
	place, value := c[0], c[2]
	pe, _ := place.Attrs.Extra.(placeExtra)

	if value.Attrs.Type.Kind == rtype.Uninitialized {
		a.errorf(rerrors.SemUninitializedUse, "cannot assign an uninitialized value")
	} else if value.Attrs.Type.Equal(rtype.UnitType) {
		a.errorf(rerrors.SemTypeMismatch, "right-hand side has no value")
	}

	if pending, ok := a.pending[pe.Name]; ok && pe.Kind == placeSimple {
		_ = pending
		if sym, found := a.Syms.Lookup(pe.Name); found {
			sym.Type = value.Attrs.Type
			a.Syms.Update(sym)
		}
		delete(a.pending, pe.Name)
	} else {
		if !pe.Mut {
			a.errorf(rerrors.SemNotMutable, "cannot assign to immutable binding %q", pe.Name)
		}
		if !rtype.IsCompatible(place.Attrs.Type, value.Attrs.Type) {
			a.errorf(rerrors.SemTypeMismatch, "cannot assign value of type %s to %q of type %s", value.Attrs.Type, pe.Name, place.Attrs.Type)
		}
	}

	switch pe.Kind {
	case placeDeref:
		a.Emit.Emit(ir.OpDerefAssign, value.Attrs.Place, "", pe.Name)
	case placeIndex:
		a.Emit.Emit(ir.OpIndexAssign, value.Attrs.Place, pe.Index, pe.Name)
	case placeMember:
		a.Emit.Emit(ir.OpMemberAssign, value.Attrs.Place, pe.Index, pe.Name)
	default:
		a.Emit.Emit(ir.OpAssign, value.Attrs.Place, "", pe.Name)
	}
}

func (a *Analyzer) reduceReturnStmt(c []*parsetree.Node, node *parsetree.Node) {
	actual := rtype.UnitType
	place := ""
	if len(c) == 3 {
		actual = c[1].Attrs.Type
		place = c[1].Attrs.Place
	}
	if !rtype.IsCompatible(a.currentReturnType, actual) {
		a.errorf(rerrors.SemTypeMismatch, "function %q declared to return %s, found %s", a.currentFuncName, a.currentReturnType, actual)
	}
	a.Emit.Emit(ir.OpReturn, place, "", "$"+a.currentFuncName)
}

func (a *Analyzer) reduceIfStmt(c []*parsetree.Node, node *parsetree.Node) {
	cond, begin, block, elseNode := c[1], c[2], c[3], c[4]
	a.Emit.Backpatch(cond.Attrs.TrueList, begin.Attrs.QuadIndex)

	ei, _ := elseNode.Attrs.Extra.(elseInfo)
	if ei.HasElse {
		a.Emit.Backpatch(cond.Attrs.FalseList, ei.Begin)
		node.Attrs.NextList = ir.Merge(block.Attrs.NextList, ei.Next)
	} else {
		node.Attrs.NextList = ir.Merge(cond.Attrs.FalseList, block.Attrs.NextList)
	}
	node.Attrs.LastReturn = false
}

func (a *Analyzer) reduceElsePart(c []*parsetree.Node, node *parsetree.Node) {
	if len(c) == 0 {
		node.Attrs.Extra = elseInfo{HasElse: false}
		return
	}
	endMarker, branch := c[1], c[2]
	node.Attrs.Extra = elseInfo{
		HasElse: true,
		// endMarker's own QuadIndex is the address of the jump it just
		// emitted (to skip the false branch); the false branch's first
		// real instruction is the slot right after that jump.
		Begin: endMarker.Attrs.QuadIndex + 1,
		Next:  ir.Merge(endMarker.Attrs.NextList, branch.Attrs.NextList),
	}
}

func (a *Analyzer) reduceLoopStmt(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 6: // while
		loop := a.popLoop()
		redo, cond, begin, block := c[2], c[3], c[4], c[5]
		a.Emit.Backpatch(cond.Attrs.TrueList, begin.Attrs.QuadIndex)
		a.Emit.Backpatch(block.Attrs.NextList, redo.Attrs.QuadIndex)
		a.Emit.Emit(ir.OpJump, "", "", fmt.Sprintf("%d", redo.Attrs.QuadIndex))
		node.Attrs.NextList = ir.Merge(cond.Attrs.FalseList, loop.breakList)
	case 5: // for
		loop := a.popLoop()
		header, begin, block := c[2], c[3], c[4]
		a.Emit.Backpatch(header.Attrs.TrueList, begin.Attrs.QuadIndex)
		stepQuad := a.Emit.NextQuad()
		a.Emit.Backpatch(block.Attrs.NextList, stepQuad)
		a.Emit.Emit(ir.OpAdd, header.Attrs.Place, "1", header.Attrs.Place)
		a.Emit.Emit(ir.OpJump, "", "", fmt.Sprintf("%d", header.Attrs.QuadIndex))
		node.Attrs.NextList = ir.Merge(header.Attrs.FalseList, loop.breakList)
	case 3: // loop
		loop := a.popLoop()
		block := c[2]
		a.Emit.Backpatch(block.Attrs.NextList, loop.beginQuad)
		a.Emit.Emit(ir.OpJump, "", "", fmt.Sprintf("%d", loop.beginQuad))
		node.Attrs.NextList = loop.breakList
	}
	a.Syms.ExitScope()
	node.Attrs.LastReturn = false
}

func (a *Analyzer) reduceForHeader(c []*parsetree.Node, node *parsetree.Node) {
	head := c[0].Attrs.Extra.(declHead)
	iter := c[2]
	info, _ := iter.Attrs.Extra.(iterableInfo)

	if !info.IsRange {
		a.Syms.Insert(symbols.Symbol{Name: head.Name, Kind: symbols.KindVariable, Type: rtype.I32, Mut: true})
		node.Attrs.QuadIndex = a.Emit.NextQuad()
		node.Attrs.Place = head.Name
		return
	}

	a.Syms.Insert(symbols.Symbol{Name: head.Name, Kind: symbols.KindVariable, Type: rtype.I32, Mut: true})
	a.Emit.Emit(ir.OpAssign, info.Start.Attrs.Place, "", head.Name)

	redo := a.Emit.NextQuad()
	cmp := a.Emit.NewTemp()
	a.Emit.Emit(ir.OpLt, head.Name, info.End.Attrs.Place, cmp)
	trueIdx := a.Emit.Emit(ir.OpJumpTrue, cmp, "", "")
	falseIdx := a.Emit.Emit(ir.OpJump, "", "", "")

	node.Attrs.TrueList = []int{trueIdx}
	node.Attrs.FalseList = []int{falseIdx}
	node.Attrs.QuadIndex = redo
	node.Attrs.Place = head.Name
}

func (a *Analyzer) reduceIterableStruct(c []*parsetree.Node, node *parsetree.Node) {
	if len(c) == 3 {
		start, end := c[0], c[2]
		if !isI32(start.Attrs.Type) || !isI32(end.Attrs.Type) {
			a.errorf(rerrors.SemNonIterable, "range bounds must be i32, found %s and %s", start.Attrs.Type, end.Attrs.Type)
		}
		node.Attrs.Type = rtype.NewRange(rtype.I32)
		node.Attrs.Extra = iterableInfo{IsRange: true, Start: start, End: end}
		return
	}
	e := c[0]
	a.errorf(rerrors.SemNonIterable, "value of type %s is not iterable; only ranges (a..b) are supported", e.Attrs.Type)
	node.Attrs.Type = rtype.NewRange(rtype.UnitType)
	node.Attrs.Extra = iterableInfo{IsRange: false}
}

func (a *Analyzer) reduceBreakStmtExpr(c []*parsetree.Node, node *parsetree.Node) {
	valExpr := c[1]
	loop := a.innermostLoop()
	if loop == nil {
		a.errorf(rerrors.SemBreakOutsideLoop, "break used outside of any loop")
		return
	}
	if !loop.wantsValue {
		a.errorf(rerrors.SemTypeMismatch, "break with a value is only allowed inside a value-producing 'loop' expression")
		return
	}
	if loop.haveValue {
		if !rtype.IsCompatible(loop.valueType, valExpr.Attrs.Type) {
			a.errorf(rerrors.SemTypeMismatch, "break value type %s does not match earlier break value type %s in the same loop", valExpr.Attrs.Type, loop.valueType)
		}
	} else {
		loop.valueType = valExpr.Attrs.Type
		loop.haveValue = true
	}
	a.Emit.Emit(ir.OpAssign, valExpr.Attrs.Place, "", loop.valueTemp)
	idx := a.Emit.Emit(ir.OpJump, "", "", "")
	loop.breakList = append(loop.breakList, idx)
}

func (a *Analyzer) reduceBreakStmtNoExpr(node *parsetree.Node) {
	loop := a.innermostLoop()
	if loop == nil {
		a.errorf(rerrors.SemBreakOutsideLoop, "break used outside of any loop")
		return
	}
	idx := a.Emit.Emit(ir.OpJump, "", "", "")
	loop.breakList = append(loop.breakList, idx)
}

func (a *Analyzer) reduceContinueStmt(node *parsetree.Node) {
	loop := a.innermostLoop()
	if loop == nil {
		a.errorf(rerrors.SemContinueOutsideLoop, "continue used outside of any loop")
		return
	}
	a.Emit.Emit(ir.OpJump, "", "", fmt.Sprintf("%d", loop.beginQuad))
}

func (a *Analyzer) reducePlaceExpr(c []*parsetree.Node, node *parsetree.Node) {
	if len(c) == 1 {
		node.Attrs = c[0].Attrs
		return
	}
	inner := c[1]
	if inner.Attrs.Type.Kind != rtype.Reference {
		a.errorf(rerrors.SemInvalidDeref, "cannot dereference non-reference type %s", inner.Attrs.Type)
		node.Attrs.Type = rtype.UnitType
		return
	}
	target := *inner.Attrs.Type.Referent
	temp := a.Emit.NewTemp()
	a.Emit.Emit(ir.OpDeref, inner.Attrs.Place, "", temp)
	node.Attrs.Place = temp
	node.Attrs.Type = target
	node.Attrs.Extra = placeExtra{Kind: placeDeref, Name: inner.Attrs.Place, Mut: inner.Attrs.Type.Unique}
}

func (a *Analyzer) reducePlaceExprBase(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 1:
		name := c[0].Source.Lexeme
		sym, ok := a.Syms.Lookup(name)
		if !ok {
			a.errorf(rerrors.SemUndeclared, "undeclared variable %q", name)
			node.Attrs.Type = rtype.UnitType
			node.Attrs.Place = name
			node.Attrs.Extra = placeExtra{Kind: placeSimple, Name: name}
			return
		}
		node.Attrs.Place = name
		node.Attrs.Type = sym.Type.Unwrap()
		node.Attrs.Extra = placeExtra{Kind: placeSimple, Name: name, Mut: sym.Mut}
	case 3:
		if c[0].Terminal && c[0].Source.Kind == token.OpLParen {
			node.Attrs = c[1].Attrs
			return
		}
		base, idxTok := c[0], c[2]
		baseExtra, _ := base.Attrs.Extra.(placeExtra)
		if base.Attrs.Type.Kind != rtype.Tuple {
			a.errorf(rerrors.SemInvalidMemberIndex, "member access on non-tuple type %s", base.Attrs.Type)
			node.Attrs.Type = rtype.UnitType
			return
		}
		n := int(idxTok.Source.IntVal)
		if n < 0 || n >= len(base.Attrs.Type.Members) {
			a.errorf(rerrors.SemInvalidMemberIndex, "tuple of %d members has no member %d", len(base.Attrs.Type.Members), n)
			node.Attrs.Type = rtype.UnitType
			return
		}
		memberType := base.Attrs.Type.Members[n]
		temp := a.Emit.NewTemp()
		idxStr := fmt.Sprintf("%d", n)
		a.Emit.Emit(ir.OpMember, base.Attrs.Place, idxStr, temp)
		node.Attrs.Place = temp
		node.Attrs.Type = memberType
		node.Attrs.Extra = placeExtra{Kind: placeMember, Name: base.Attrs.Place, Index: idxStr, Mut: baseExtra.Mut}
	case 4:
		base, idx := c[0], c[2]
		baseExtra, _ := base.Attrs.Extra.(placeExtra)
		if base.Attrs.Type.Kind != rtype.Array {
			a.errorf(rerrors.SemTypeMismatch, "cannot index into non-array type %s", base.Attrs.Type)
			node.Attrs.Type = rtype.UnitType
			return
		}
		if !isI32(idx.Attrs.Type) {
			a.errorf(rerrors.SemTypeMismatch, "array index must be of type i32, found %s", idx.Attrs.Type)
		}
		if cv, ok := idx.Attrs.Extra.(int); ok {
			if cv < 0 || int(cv) >= base.Attrs.Type.Size {
				a.errorf(rerrors.SemIndexOutOfBounds, "index %d out of bounds for array of size %d", cv, base.Attrs.Type.Size)
			}
		}
		elemType := *base.Attrs.Type.Elem
		temp := a.Emit.NewTemp()
		a.Emit.Emit(ir.OpIndex, base.Attrs.Place, idx.Attrs.Place, temp)
		node.Attrs.Place = temp
		node.Attrs.Type = elemType
		node.Attrs.Extra = placeExtra{Kind: placeIndex, Name: base.Attrs.Place, Index: idx.Attrs.Place, Mut: baseExtra.Mut}
	}
}

func (a *Analyzer) reduceValueExpr(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 1:
		node.Attrs = c[0].Attrs
	case 3:
		if c[0].Terminal && c[0].Source.Kind == token.OpLBracket {
			elems, _ := c[1].Attrs.Extra.([]*parsetree.Node)
			arr := a.Emit.NewTemp()
			if len(elems) == 0 {
				node.Attrs.Type = rtype.NewArray(rtype.UnitType, 0)
				node.Attrs.Place = arr
				return
			}
			elemType := elems[0].Attrs.Type
			for _, e := range elems[1:] {
				if !rtype.IsCompatible(elemType, e.Attrs.Type) {
					a.errorf(rerrors.SemTypeMismatch, "array elements must share one type: %s vs %s", elemType, e.Attrs.Type)
				}
			}
			for i, e := range elems {
				a.Emit.Emit(ir.OpIndexAssign, e.Attrs.Place, fmt.Sprintf("%d", i), arr)
			}
			node.Attrs.Place = arr
			node.Attrs.Type = rtype.NewArray(elemType, len(elems))
		} else {
			elems, _ := c[1].Attrs.Extra.([]*parsetree.Node)
			if len(elems) == 0 {
				node.Attrs.Type = rtype.UnitType
				return
			}
			tup := a.Emit.NewTemp()
			memberTypes := make([]rtype.Type, len(elems))
			for i, e := range elems {
				memberTypes[i] = e.Attrs.Type
				a.Emit.Emit(ir.OpMemberAssign, e.Attrs.Place, fmt.Sprintf("%d", i), tup)
			}
			node.Attrs.Place = tup
			node.Attrs.Type = rtype.NewTuple(memberTypes...)
		}
	}
}

func (a *Analyzer) reduceCondExpr(c []*parsetree.Node, node *parsetree.Node) {
	expr := c[0]
	if !rtype.IsBool(expr.Attrs.Type) {
		a.errorf(rerrors.SemNonBoolCondition, "condition must be of type bool, found %s", expr.Attrs.Type)
	}
	trueIdx := a.Emit.Emit(ir.OpJumpTrue, expr.Attrs.Place, "", "")
	falseIdx := a.Emit.Emit(ir.OpJump, "", "", "")
	node.Attrs.TrueList = []int{trueIdx}
	node.Attrs.FalseList = []int{falseIdx}
}

func (a *Analyzer) reduceSelectCond(c []*parsetree.Node, node *parsetree.Node) {
	expr := c[0]
	if !rtype.IsBool(expr.Attrs.Type) {
		a.errorf(rerrors.SemNonBoolCondition, "if-expression condition must be of type bool, found %s", expr.Attrs.Type)
	}
	trueIdx := a.Emit.Emit(ir.OpJumpTrue, expr.Attrs.Place, "", "")
	falseIdx := a.Emit.Emit(ir.OpJump, "", "", "")
	node.Attrs.TrueList = []int{trueIdx}
	node.Attrs.FalseList = []int{falseIdx}
	a.selectResults = append(a.selectResults, a.Emit.NewTemp())
}

func (a *Analyzer) reduceArm(c []*parsetree.Node, node *parsetree.Node, isTrue bool) {
	_ = isTrue
	block := c[0]
	node.Attrs = block.Attrs
	result := a.selectResults[len(a.selectResults)-1]
	if block.Attrs.Place != "" {
		a.Emit.Emit(ir.OpAssign, block.Attrs.Place, "", result)
	}
}

func (a *Analyzer) reduceConditionalExpr(c []*parsetree.Node, node *parsetree.Node) {
	cond, begin1, trueArm, endMarker, begin2, falseArm := c[1], c[2], c[3], c[4], c[6], c[7]
	a.Emit.Backpatch(cond.Attrs.TrueList, begin1.Attrs.QuadIndex)
	a.Emit.Backpatch(cond.Attrs.FalseList, begin2.Attrs.QuadIndex)

	if !rtype.IsCompatible(trueArm.Attrs.Type, falseArm.Attrs.Type) {
		a.errorf(rerrors.SemTypeMismatch, "if-expression arms have incompatible types: %s vs %s", trueArm.Attrs.Type, falseArm.Attrs.Type)
	}

	result := a.selectResults[len(a.selectResults)-1]
	a.selectResults = a.selectResults[:len(a.selectResults)-1]

	end := a.Emit.NextQuad()
	a.Emit.Backpatch(endMarker.Attrs.NextList, end)

	node.Attrs.Place = result
	node.Attrs.Type = trueArm.Attrs.Type
	node.Attrs.NextList = ir.Merge(trueArm.Attrs.NextList, falseArm.Attrs.NextList)
}

func (a *Analyzer) reduceShortCircuit(c []*parsetree.Node, node *parsetree.Node, op ir.Op, isOr bool) {
	if len(c) == 1 {
		node.Attrs = c[0].Attrs
		return
	}
	lhs, rhs := c[0], c[2]
	if !rtype.IsBool(lhs.Attrs.Type) || !rtype.IsBool(rhs.Attrs.Type) {
		a.errorf(rerrors.SemTypeMismatch, "operands of %q must be bool, found %s and %s", op, lhs.Attrs.Type, rhs.Attrs.Type)
	}
	temp := a.Emit.NewTemp()
	if isOr {
		j1 := a.Emit.Emit(ir.OpJumpTrue, lhs.Attrs.Place, "", "")
		j2 := a.Emit.Emit(ir.OpJumpTrue, rhs.Attrs.Place, "", "")
		j3 := a.Emit.Emit(ir.OpJump, "", "", "")
		a.Emit.Backpatch([]int{j1, j2}, a.Emit.NextQuad())
		a.Emit.Emit(ir.OpAssign, "1", "", temp)
		j4 := a.Emit.Emit(ir.OpJump, "", "", "")
		a.Emit.Backpatch([]int{j3}, a.Emit.NextQuad())
		a.Emit.Emit(ir.OpAssign, "0", "", temp)
		a.Emit.Backpatch([]int{j4}, a.Emit.NextQuad())
	} else {
		j1 := a.Emit.Emit(ir.OpJumpFalse, lhs.Attrs.Place, "", "")
		j2 := a.Emit.Emit(ir.OpJumpFalse, rhs.Attrs.Place, "", "")
		a.Emit.Emit(ir.OpAssign, "1", "", temp)
		j3 := a.Emit.Emit(ir.OpJump, "", "", "")
		a.Emit.Backpatch([]int{j1, j2}, a.Emit.NextQuad())
		a.Emit.Emit(ir.OpAssign, "0", "", temp)
		a.Emit.Backpatch([]int{j3}, a.Emit.NextQuad())
	}
	node.Attrs.Place = temp
	node.Attrs.Type = rtype.Bool
}

func (a *Analyzer) reduceRelational(c []*parsetree.Node, node *parsetree.Node) {
	if len(c) == 1 {
		node.Attrs = c[0].Attrs
		return
	}
	lhs, opNode, rhs := c[0], c[1], c[2]
	if !rtype.IsRelCompatible(lhs.Attrs.Type, rhs.Attrs.Type) {
		a.errorf(rerrors.SemTypeMismatch, "incompatible operand types for %s: %s vs %s", opNode.Attrs.Place, lhs.Attrs.Type, rhs.Attrs.Type)
	}
	temp := a.Emit.NewTemp()
	a.Emit.Emit(ir.Op(opNode.Attrs.Place), lhs.Attrs.Place, rhs.Attrs.Place, temp)
	node.Attrs.Place = temp
	node.Attrs.Type = rtype.Bool
}

func (a *Analyzer) reduceArith(c []*parsetree.Node, node *parsetree.Node) {
	if len(c) == 1 {
		node.Attrs = c[0].Attrs
		return
	}
	lhs, opNode, rhs := c[0], c[1], c[2]
	if !rtype.IsArithCompatible(lhs.Attrs.Type, rhs.Attrs.Type) {
		a.errorf(rerrors.SemTypeMismatch, "arithmetic operands must be i32: %s vs %s", lhs.Attrs.Type, rhs.Attrs.Type)
	}
	temp := a.Emit.NewTemp()
	a.Emit.Emit(ir.Op(opNode.Attrs.Place), lhs.Attrs.Place, rhs.Attrs.Place, temp)
	node.Attrs.Place = temp
	node.Attrs.Type = lhs.Attrs.Type
}

func (a *Analyzer) reduceUnary(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 1:
		if c[0].Terminal {
			tok := c[0].Source
			node.Attrs.Place = tok.Lexeme
			if tok.Kind == token.FloatLiteral {
				node.Attrs.Type = rtype.F32
			} else {
				node.Attrs.Type = rtype.I32
				node.Attrs.Extra = tok.IntVal
			}
			return
		}
		node.Attrs = c[0].Attrs
	case 2:
		a.reduceReferenceCreation(c[0].Attrs.Place, c[1], node)
	}
}

func (a *Analyzer) reduceReferenceCreation(kind string, operand *parsetree.Node, node *parsetree.Node) {
	unique := kind == "&mut"
	pe, isPlace := operand.Attrs.Extra.(placeExtra)

	if isPlace && pe.Name != "" {
		bs := a.borrows[pe.Name]
		if bs == nil {
			bs = &borrowState{}
			a.borrows[pe.Name] = bs
		}
		if unique {
			if !pe.Mut {
				a.errorf(rerrors.SemBorrowConflict, "cannot take a mutable reference to immutable binding %q", pe.Name)
			} else if bs.shared > 0 || bs.unique > 0 {
				a.errorf(rerrors.SemBorrowConflict, "cannot take a mutable reference to %q while another reference is outstanding", pe.Name)
			} else {
				bs.unique++
			}
		} else {
			if bs.unique > 0 {
				a.errorf(rerrors.SemBorrowConflict, "cannot take a shared reference to %q while a mutable reference is outstanding", pe.Name)
			} else {
				bs.shared++
			}
		}
	}

	node.Attrs.Place = operand.Attrs.Place
	node.Attrs.Type = rtype.NewReference(operand.Attrs.Type, unique)
	if unique {
		a.Emit.Emit(ir.OpRefMut, operand.Attrs.Place, "", node.Attrs.Place)
	} else {
		a.Emit.Emit(ir.OpRef, operand.Attrs.Place, "", node.Attrs.Place)
	}
}

func (a *Analyzer) reducePostfix(c []*parsetree.Node, node *parsetree.Node) {
	if len(c) == 1 {
		node.Attrs = c[0].Attrs
		return
	}
	callee := c[0]
	args, _ := c[2].Attrs.Extra.([]*parsetree.Node)
	name := callee.Attrs.Place

	sym, ok := a.Syms.GetFunction(name)
	if !ok {
		a.errorf(rerrors.SemNotCallable, "%q is not callable", name)
		node.Attrs.Type = rtype.UnitType
		return
	}
	if len(args) != len(sym.ParamTypes) {
		a.errorf(rerrors.SemArityMismatch, "function %q expects %d argument(s), got %d", name, len(sym.ParamTypes), len(args))
	} else {
		for i, arg := range args {
			if !rtype.IsCompatible(sym.ParamTypes[i], arg.Attrs.Type) {
				a.errorf(rerrors.SemTypeMismatch, "argument %d to %q: expected %s, found %s", i+1, name, sym.ParamTypes[i], arg.Attrs.Type)
			}
		}
	}

	for _, arg := range args {
		a.Emit.Emit(ir.OpParam, arg.Attrs.Place, "", "")
	}
	var result string
	if !sym.ReturnType.Equal(rtype.UnitType) {
		result = a.Emit.NewTemp()
	}
	a.Emit.Emit(ir.OpCall, name, fmt.Sprintf("%d", len(args)), result)
	node.Attrs.Place = result
	node.Attrs.Type = sym.ReturnType
}

func (a *Analyzer) reduceLoopExpr(c []*parsetree.Node, node *parsetree.Node) {
	loop := a.popLoop()
	a.Emit.Emit(ir.OpJump, "", "", fmt.Sprintf("%d", loop.beginQuad))
	end := a.Emit.NextQuad()
	a.Emit.Backpatch(loop.breakList, end)
	a.Syms.ExitScope()

	if loop.haveValue {
		node.Attrs.Type = loop.valueType
	} else {
		node.Attrs.Type = rtype.UnitType
	}
	node.Attrs.Place = loop.valueTemp
}

func (a *Analyzer) reduceArrayElemList(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 0:
		node.Attrs.Extra = []*parsetree.Node{}
	case 1:
		node.Attrs.Extra = []*parsetree.Node{c[0]}
	case 3:
		rest, _ := c[2].Attrs.Extra.([]*parsetree.Node)
		node.Attrs.Extra = append([]*parsetree.Node{c[0]}, rest...)
	}
}

func (a *Analyzer) reduceTupleElemInner(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 0:
		node.Attrs.Extra = []*parsetree.Node{}
	case 3:
		rest, _ := c[2].Attrs.Extra.([]*parsetree.Node)
		node.Attrs.Extra = append([]*parsetree.Node{c[0]}, rest...)
	}
}

func (a *Analyzer) reduceTupleElemList(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 0:
		node.Attrs.Extra = []*parsetree.Node{}
	case 1:
		node.Attrs.Extra = []*parsetree.Node{c[0]}
	case 3:
		rest, _ := c[2].Attrs.Extra.([]*parsetree.Node)
		node.Attrs.Extra = append([]*parsetree.Node{c[0]}, rest...)
	}
}

func (a *Analyzer) reduceArgList(c []*parsetree.Node, node *parsetree.Node) {
	switch len(c) {
	case 0:
		node.Attrs.Extra = []*parsetree.Node{}
	case 1:
		node.Attrs.Extra = []*parsetree.Node{c[0]}
	case 3:
		rest, _ := c[2].Attrs.Extra.([]*parsetree.Node)
		node.Attrs.Extra = append([]*parsetree.Node{c[0]}, rest...)
	}
}
