package rustlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_SimpleArithmetic(t *testing.T) {
	src := `
fn add(a: i32, b: i32) -> i32 {
	return a + b;
}

fn main() {
	let sum: i32 = add(1, 2);
	return;
}
`
	res, err := Compile(src)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics, "expected no semantic diagnostics, got %v", res.Diagnostics)
	assert.NotEmpty(t, res.Tokens)
	assert.NotNil(t, res.Tree)
	assert.NotEmpty(t, res.Quads)
}

func Test_Compile_IfElseAndLoop(t *testing.T) {
	src := `
fn classify(n: i32) -> i32 {
	if n < 0 {
		return 0;
	} else {
		return 1;
	}
	return 0;
}

fn main() {
	let mut total: i32 = 0;
	for i in 0..5 {
		total = total + i;
	}
	let mut count: i32 = 0;
	while count < 3 {
		count = count + 1;
	}
	loop {
		break;
	}
	return;
}
`
	res, err := Compile(src)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics, "expected no semantic diagnostics, got %v", res.Diagnostics)
	assert.NotEmpty(t, res.Quads)
}

func Test_Compile_TrailingExprFunctionBody(t *testing.T) {
	src := `
fn square(x: i32) -> i32 {
	x * x
}

fn main() {
	let r: i32 = square(3);
	return;
}
`
	res, err := Compile(src)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func Test_Compile_ConditionalExprValue(t *testing.T) {
	src := `
fn main() {
	let flag: i32 = 1;
	let picked: i32 = if flag == 1 { 10 } else { 20 };
	return;
}
`
	res, err := Compile(src)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics, "expected no semantic diagnostics, got %v", res.Diagnostics)
}

func Test_Compile_ReferencesAndBorrowConflict(t *testing.T) {
	src := `
fn main() {
	let mut x: i32 = 1;
	let r1: &i32 = &x;
	let r2: &mut i32 = &mut x;
	return;
}
`
	res, err := Compile(src)
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics, "expected a borrow conflict diagnostic")
}

func Test_Compile_MissingMainIsSemanticError(t *testing.T) {
	src := `
fn helper() {
	return;
}
`
	res, err := Compile(src)
	require.NoError(t, err, "absence of main is a semantic diagnostic, not a parse failure")
	require.NotEmpty(t, res.Diagnostics)
}

func Test_Compile_SyntaxErrorIsFatal(t *testing.T) {
	src := `fn main() { let x: i32 = ; }`
	_, err := Compile(src)
	assert.Error(t, err)
}

func Test_Compile_UndeclaredVariableIsDiagnostic(t *testing.T) {
	src := `
fn main() {
	let y: i32 = x + 1;
	return;
}
`
	res, err := Compile(src)
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)
}
