package grammar

import "github.com/ashgrove/rustlite/internal/ictiobus/token"

// Nonterminal name constants for the Rust-like language. Grouped and
// ordered the way original_source/compiler_rust_grammar.py's RUST_GRAMMAR
// table is commented: basic construct, function declaration, block/
// expression-block, variable/type, statement, expression (stratified by
// precedence), literals, operators. The marker nonterminals
// (CondExpr/BeginMarker/EndMarker/ReDoMarker/LoopMarker/...) are this
// module's own addition, grounded on spec §4.9's backpatching scheme,
// which original_source expresses as inline yacc actions rather than as
// grammar symbols; see DESIGN.md for how each marker resolves the
// sibling-attribute problem that a literal epsilon-marker encoding runs
// into under a strictly-child-reading analyzer.
const (
	NTJFuncStart      = "j_func_start"
	NTProgram         = "program"
	NTDeclList        = "decl_list"
	NTDecl            = "decl"
	NTFuncDecl        = "func_decl"
	NTFuncHeader      = "func_header"
	NTReturnType      = "return_type"
	NTParamList       = "param_list"
	NTParam           = "param"
	NTVarDeclHead     = "var_decl_head"
	NTType            = "type"
	NTTupleTypeInner  = "tuple_type_inner"
	NTTupleTypeList   = "tuple_type_list"
	NTBlock           = "block"
	NTStmtList        = "stmt_list"
	NTExprBlock       = "expr_block"
	NTStmtListExpr    = "stmt_list_expr"
	NTLoopExprBlock   = "loop_expr_block"
	NTStmtSemi        = "stmt_semi"
	NTBareExprStmt    = "bare_expr_stmt"
	NTStmtValueExpr   = "stmt_value_expr"
	NTVarDeclStmt     = "var_decl_stmt"
	NTVarDeclAssign   = "var_decl_assign_stmt"
	NTAssignStmt      = "assign_stmt"
	NTReturnStmt      = "return_stmt"
	NTIfStmt          = "if_stmt"
	NTElsePart        = "else_part"
	NTLoopStmt        = "loop_stmt"
	NTForHeader       = "for_header"
	NTIterableStruct  = "iterable_struct"
	NTBreakStmt       = "break_stmt"
	NTBreakStmtExpr   = "break_stmt_expr"
	NTBreakStmtNoExpr = "break_stmt_no_expr"
	NTContinueStmt    = "continue_stmt"
	NTPlaceExpr       = "place_expr"
	NTPlaceExprBase   = "place_expr_base"
	NTValueExpr       = "value_expr"
	NTConditionalExpr = "conditional_expr"
	NTSelectCond      = "select_cond"
	NTTrueArm         = "true_arm"
	NTFalseArm        = "false_arm"
	NTLogicalOrExpr   = "logical_or_expr"
	NTLogicalAndExpr  = "logical_and_expr"
	NTRelationalExpr  = "relational_expr"
	NTAdditiveExpr    = "additive_expr"
	NTMultExpr        = "multiplicative_expr"
	NTUnaryExpr       = "unary_expr"
	NTPostfixExpr     = "postfix_expr"
	NTPrimaryExpr     = "primary_expr"
	NTLoopExpr        = "loop_expr"
	NTArrayElemList   = "array_element_list"
	NTTupleElemInner  = "tuple_element_inner"
	NTTupleElemList   = "tuple_element_list"
	NTArgList         = "argument_list"
	NTRelOp           = "relational_op"
	NTAddOp           = "additive_op"
	NTMulOp           = "multiplicative_op"
	NTUnaryOp         = "unary_op"
	NTLogicOrOp       = "logic_or_op"
	NTLogicAndOp      = "logic_and_op"

	NTCondExpr       = "cond_expr"
	NTBeginMarker    = "begin_marker"
	NTEndMarker      = "end_marker"
	NTReDoMarker     = "redo_marker"
	NTLoopMarker     = "loop_marker"
	NTLoopExprMarker = "loop_expr_marker"
)

// p is shorthand for a terminal symbol's ID when building productions.
func p(k token.Kind) string { return k.ID() }

// BuildRustLite returns the canonical grammar for this module's
// Rust-like language. Production indices are assigned in the order rules
// are declared here; the LR(1) table's reduce actions reference these
// indices, while package sema dispatches on the reducing nonterminal's
// name (and the shape of its children), not on the index.
func BuildRustLite() (Grammar, error) {
	b := NewBuilder(NTProgram)

	for _, t := range []string{
		p(token.KwFn), p(token.KwMut), p(token.KwReturn), p(token.OpArrow), p(token.KwLet),
		p(token.KwIf), p(token.KwElse), p(token.KwWhile), p(token.KwFor), p(token.KwLoop),
		p(token.KwBreak), p(token.KwContinue), p(token.KwIn), p(token.KwI32),
		p(token.Identifier), p(token.IntLiteral), p(token.FloatLiteral), p(token.StringLiteral),
		p(token.OpPlus), p(token.OpMinus), p(token.OpStar), p(token.OpSlash), p(token.OpPercent), p(token.OpAnd),
		p(token.OpEq), p(token.OpNe), p(token.OpLt), p(token.OpLe), p(token.OpGt), p(token.OpGe),
		p(token.OpOrOr), p(token.OpAndAnd),
		p(token.OpLParen), p(token.OpRParen), p(token.OpLBracket), p(token.OpRBracket),
		p(token.OpLBrace), p(token.OpRBrace), p(token.OpSemi), p(token.OpComma),
		p(token.OpColon), p(token.OpAssign), p(token.OpDot), p(token.OpDotDot),
	} {
		b.Terminal(t)
	}

	b.Rule(NTProgram, Production{NTJFuncStart, NTDeclList})
	b.Rule(NTJFuncStart, Production{})
	b.Rule(NTDeclList,
		Production{NTDecl, NTDeclList},
		Production{},
	)
	b.Rule(NTDecl, Production{NTFuncDecl})

	b.Rule(NTFuncDecl,
		Production{NTFuncHeader, NTBlock},
		Production{NTFuncHeader, NTExprBlock},
	)
	b.Rule(NTFuncHeader, Production{p(token.KwFn), p(token.Identifier), p(token.OpLParen), NTParamList, p(token.OpRParen), NTReturnType})
	b.Rule(NTReturnType,
		Production{p(token.OpArrow), NTType},
		Production{},
	)
	b.Rule(NTParamList,
		Production{NTParam},
		Production{NTParam, p(token.OpComma), NTParamList},
		Production{},
	)
	b.Rule(NTParam, Production{NTVarDeclHead, p(token.OpColon), NTType})

	b.Rule(NTVarDeclHead,
		Production{p(token.KwMut), p(token.Identifier)},
		Production{p(token.Identifier)},
	)

	b.Rule(NTType,
		Production{p(token.KwI32)},
		Production{p(token.OpLBracket), NTType, p(token.OpSemi), p(token.IntLiteral), p(token.OpRBracket)},
		Production{p(token.OpLParen), NTTupleTypeInner, p(token.OpRParen)},
		Production{p(token.OpAnd), p(token.KwMut), NTType},
		Production{p(token.OpAnd), NTType},
	)
	b.Rule(NTTupleTypeInner,
		Production{},
		Production{NTType, p(token.OpComma), NTTupleTypeList},
	)
	b.Rule(NTTupleTypeList,
		Production{},
		Production{NTType},
		Production{NTType, p(token.OpComma), NTTupleTypeList},
	)

	b.Rule(NTBlock, Production{p(token.OpLBrace), NTStmtList, p(token.OpRBrace)})
	// NTStmtList is left-recursive with an NTBeginMarker interleaved between
	// the accumulated prefix and the next statement. original_source's
	// StatementString uses the identical shape (left-recursive, BeginMarker
	// between); a right-recursive list with no marker cannot backpatch one
	// statement's next_list to "wherever the following statement begins",
	// because by the time the composite reduces, the following statement's
	// own code has already been fully emitted with no recorded boundary.
	b.Rule(NTStmtList,
		Production{},
		Production{NTStmtSemi},
		Production{NTStmtList, NTBeginMarker, NTStmtSemi},
	)
	b.Rule(NTExprBlock, Production{p(token.OpLBrace), NTStmtListExpr, p(token.OpRBrace)})
	// Same backpatching hazard applies to the statements preceding the
	// trailing bare expression, so NTStmtListExpr reuses NTStmtList as its
	// prefix rather than right-recursing the way original_source's
	// FunctionExpressionString does (that shape only gets away without a
	// marker because it never backpatches anything, just forwards the last
	// child's Place/Type).
	b.Rule(NTStmtListExpr,
		Production{NTBareExprStmt},
		Production{NTStmtList, NTBeginMarker, NTBareExprStmt},
	)
	b.Rule(NTLoopExprBlock, Production{p(token.OpLBrace), NTStmtList, NTBeginMarker, NTBreakStmtExpr, p(token.OpRBrace)})

	b.Rule(NTStmtSemi,
		Production{NTVarDeclStmt},
		Production{NTVarDeclAssign},
		Production{NTAssignStmt},
		Production{NTReturnStmt},
		Production{NTIfStmt},
		Production{NTLoopStmt},
		Production{NTBreakStmt},
		Production{NTContinueStmt},
		Production{p(token.OpSemi)},
		Production{NTBareExprStmt, p(token.OpSemi)},
	)
	// NTBareExprStmt routes through the restricted NTStmtValueExpr rather
	// than the full NTValueExpr: value_expr's conditional_expr and loop_expr
	// alternatives both open on KwIf/KwLoop, the same lookahead NTIfStmt and
	// NTLoopStmt predict directly from NTStmtSemi, and a canonical LR(1)
	// parser can't tell, at that token, which of the two identically-shaped
	// condition/select productions (cond_expr/select_cond, loop_marker/
	// loop_expr_marker) it's reducing toward. Keeping those two expression
	// forms out of the bare-statement and block-tail position (this rule is
	// also NTStmtListExpr's tail) removes the conflict; they remain usable
	// everywhere else value_expr already appears (let-bindings, return,
	// assignment RHS, array/tuple/argument elements, range bounds, break).
	b.Rule(NTBareExprStmt, Production{NTStmtValueExpr})

	// Mirrors NTValueExpr's array/tuple-literal and logical_or_expr
	// alternatives exactly, just without conditional_expr or loop_expr.
	b.Rule(NTStmtValueExpr,
		Production{p(token.OpLBracket), NTArrayElemList, p(token.OpRBracket)},
		Production{p(token.OpLParen), NTTupleElemInner, p(token.OpRParen)},
		Production{NTLogicalOrExpr},
	)

	b.Rule(NTVarDeclStmt,
		Production{p(token.KwLet), NTVarDeclHead, p(token.OpColon), NTType, p(token.OpSemi)},
		Production{p(token.KwLet), NTVarDeclHead, p(token.OpSemi)},
	)
	b.Rule(NTVarDeclAssign,
		Production{p(token.KwLet), NTVarDeclHead, p(token.OpAssign), NTValueExpr, p(token.OpSemi)},
		Production{p(token.KwLet), NTVarDeclHead, p(token.OpColon), NTType, p(token.OpAssign), NTValueExpr, p(token.OpSemi)},
	)
	b.Rule(NTAssignStmt, Production{NTPlaceExpr, p(token.OpAssign), NTValueExpr, p(token.OpSemi)})
	b.Rule(NTReturnStmt,
		Production{p(token.KwReturn), p(token.OpSemi)},
		Production{p(token.KwReturn), NTValueExpr, p(token.OpSemi)},
	)

	b.Rule(NTIfStmt, Production{p(token.KwIf), NTCondExpr, NTBeginMarker, NTBlock, NTElsePart})
	b.Rule(NTElsePart,
		Production{},
		Production{p(token.KwElse), NTEndMarker, NTBlock},
		Production{p(token.KwElse), NTEndMarker, NTIfStmt},
	)

	b.Rule(NTLoopStmt,
		Production{p(token.KwWhile), NTLoopMarker, NTReDoMarker, NTCondExpr, NTBeginMarker, NTBlock},
		Production{p(token.KwFor), NTLoopMarker, NTForHeader, NTBeginMarker, NTBlock},
		Production{p(token.KwLoop), NTLoopMarker, NTBlock},
	)
	b.Rule(NTForHeader, Production{NTVarDeclHead, p(token.KwIn), NTIterableStruct})
	b.Rule(NTIterableStruct,
		Production{NTValueExpr, p(token.OpDotDot), NTValueExpr},
		Production{NTValueExpr},
	)

	b.Rule(NTBreakStmt,
		Production{NTBreakStmtExpr},
		Production{NTBreakStmtNoExpr},
	)
	b.Rule(NTBreakStmtExpr, Production{p(token.KwBreak), NTValueExpr, p(token.OpSemi)})
	b.Rule(NTBreakStmtNoExpr, Production{p(token.KwBreak), p(token.OpSemi)})
	b.Rule(NTContinueStmt, Production{p(token.KwContinue), p(token.OpSemi)})

	b.Rule(NTPlaceExpr,
		Production{NTPlaceExprBase},
		Production{p(token.OpStar), NTPlaceExpr},
	)
	b.Rule(NTPlaceExprBase,
		Production{p(token.Identifier)},
		Production{p(token.OpLParen), NTPlaceExpr, p(token.OpRParen)},
		Production{NTPlaceExprBase, p(token.OpLBracket), NTValueExpr, p(token.OpRBracket)},
		Production{NTPlaceExprBase, p(token.OpDot), p(token.IntLiteral)},
	)

	// conditional_expr and loop_expr are top-level alternatives here, not
	// nested inside primary_expr, so that NTStmtValueExpr above can omit
	// exactly these two and nothing else; see its comment for why.
	b.Rule(NTValueExpr,
		Production{p(token.OpLBracket), NTArrayElemList, p(token.OpRBracket)},
		Production{p(token.OpLParen), NTTupleElemInner, p(token.OpRParen)},
		Production{NTLogicalOrExpr},
		Production{NTConditionalExpr},
		Production{NTLoopExpr},
	)

	b.Rule(NTConditionalExpr, Production{p(token.KwIf), NTSelectCond, NTBeginMarker, NTTrueArm, NTEndMarker, p(token.KwElse), NTBeginMarker, NTFalseArm})
	b.Rule(NTSelectCond, Production{NTLogicalOrExpr})
	b.Rule(NTTrueArm, Production{NTExprBlock})
	b.Rule(NTFalseArm, Production{NTExprBlock})

	b.Rule(NTLogicalOrExpr,
		Production{NTLogicalOrExpr, NTLogicOrOp, NTLogicalAndExpr},
		Production{NTLogicalAndExpr},
	)
	b.Rule(NTLogicalAndExpr,
		Production{NTLogicalAndExpr, NTLogicAndOp, NTRelationalExpr},
		Production{NTRelationalExpr},
	)
	b.Rule(NTRelationalExpr,
		Production{NTRelationalExpr, NTRelOp, NTAdditiveExpr},
		Production{NTAdditiveExpr},
	)
	b.Rule(NTAdditiveExpr,
		Production{NTAdditiveExpr, NTAddOp, NTMultExpr},
		Production{NTMultExpr},
	)
	b.Rule(NTMultExpr,
		Production{NTMultExpr, NTMulOp, NTUnaryExpr},
		Production{NTUnaryExpr},
	)
	b.Rule(NTUnaryExpr,
		Production{NTUnaryOp, NTUnaryExpr},
		Production{NTPostfixExpr},
		Production{p(token.IntLiteral)},
		Production{p(token.FloatLiteral)},
	)
	b.Rule(NTPostfixExpr,
		Production{NTPostfixExpr, p(token.OpLParen), NTArgList, p(token.OpRParen)},
		Production{NTPrimaryExpr},
	)
	b.Rule(NTPrimaryExpr,
		Production{NTPlaceExpr},
		Production{p(token.OpLParen), NTValueExpr, p(token.OpRParen)},
		Production{NTExprBlock},
	)
	b.Rule(NTLoopExpr, Production{p(token.KwLoop), NTLoopExprMarker, NTLoopExprBlock})

	b.Rule(NTArrayElemList,
		Production{},
		Production{NTValueExpr},
		Production{NTValueExpr, p(token.OpComma), NTArrayElemList},
	)
	b.Rule(NTTupleElemInner,
		Production{},
		Production{NTValueExpr, p(token.OpComma), NTTupleElemList},
	)
	b.Rule(NTTupleElemList,
		Production{},
		Production{NTValueExpr},
		Production{NTValueExpr, p(token.OpComma), NTTupleElemList},
	)
	b.Rule(NTArgList,
		Production{},
		Production{NTValueExpr},
		Production{NTValueExpr, p(token.OpComma), NTArgList},
	)

	b.Rule(NTRelOp,
		Production{p(token.OpEq)}, Production{p(token.OpNe)}, Production{p(token.OpLt)},
		Production{p(token.OpLe)}, Production{p(token.OpGt)}, Production{p(token.OpGe)},
	)
	b.Rule(NTAddOp, Production{p(token.OpPlus)}, Production{p(token.OpMinus)})
	b.Rule(NTMulOp, Production{p(token.OpStar)}, Production{p(token.OpSlash)}, Production{p(token.OpPercent)})
	b.Rule(NTUnaryOp,
		Production{p(token.OpAnd)},
		Production{p(token.OpAnd), p(token.KwMut)},
	)
	b.Rule(NTLogicOrOp, Production{p(token.OpOrOr)})
	b.Rule(NTLogicAndOp, Production{p(token.OpAndAnd)})

	b.Rule(NTCondExpr, Production{NTLogicalOrExpr})
	b.Rule(NTBeginMarker, Production{})
	b.Rule(NTEndMarker, Production{})
	b.Rule(NTReDoMarker, Production{})
	b.Rule(NTLoopMarker, Production{})
	b.Rule(NTLoopExprMarker, Production{})

	return b.Build()
}
