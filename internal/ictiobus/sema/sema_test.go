package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/rustlite/internal/ictiobus/driver"
	"github.com/ashgrove/rustlite/internal/ictiobus/grammar"
	"github.com/ashgrove/rustlite/internal/ictiobus/lexer"
	"github.com/ashgrove/rustlite/internal/ictiobus/lrtable"
	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
)

// analyze lexes, parses, and semantically analyzes src against the
// canonical grammar, failing the test on any lex/parse error so callers
// only need to inspect the resulting diagnostics.
func analyze(t *testing.T, src string) *Analyzer {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)

	g, err := grammar.BuildRustLite()
	require.NoError(t, err)
	table, err := lrtable.Build(g)
	require.NoError(t, err)

	a := New()
	_, err = driver.Parse(table, toks, a.OnReduce)
	require.NoError(t, err)
	return a
}

func Test_Analyzer_ArrayIndexOutOfBounds(t *testing.T) {
	a := analyze(t, `
fn main() {
	let arr: [i32; 3] = [1, 2, 3];
	let x: i32 = arr[5];
	return;
}
`)
	var found bool
	for _, d := range a.Diagnostics {
		found = found || d.Kind == rerrors.SemIndexOutOfBounds
	}
	assert.True(t, found, "expected an out-of-bounds diagnostic, got %v", a.Diagnostics)
}

func Test_Analyzer_TupleMemberAccess(t *testing.T) {
	a := analyze(t, `
fn main() {
	let pair: (i32, i32) = (1, 2);
	let first: i32 = pair.0;
	return;
}
`)
	assert.Empty(t, a.Diagnostics, "expected no diagnostics, got %v", a.Diagnostics)
}

func Test_Analyzer_TupleMemberOutOfRange(t *testing.T) {
	a := analyze(t, `
fn main() {
	let pair: (i32, i32) = (1, 2);
	let bad: i32 = pair.9;
	return;
}
`)
	assert.NotEmpty(t, a.Diagnostics)
}

func Test_Analyzer_AssignToImmutableIsDiagnostic(t *testing.T) {
	a := analyze(t, `
fn main() {
	let x: i32 = 1;
	x = 2;
	return;
}
`)
	assert.NotEmpty(t, a.Diagnostics, "assigning to a non-mut binding should be flagged")
}

func Test_Analyzer_ArityMismatchOnCall(t *testing.T) {
	a := analyze(t, `
fn add(a: i32, b: i32) -> i32 {
	return a + b;
}

fn main() {
	let r: i32 = add(1);
	return;
}
`)
	assert.NotEmpty(t, a.Diagnostics, "calling add with one argument should be flagged")
}

func Test_Analyzer_ContinueOutsideLoopIsDiagnostic(t *testing.T) {
	a := analyze(t, `
fn main() {
	continue;
	return;
}
`)
	assert.NotEmpty(t, a.Diagnostics)
}

func Test_Analyzer_ResetClearsState(t *testing.T) {
	a := analyze(t, `
fn main() {
	let x: i32 = 1;
	x = 2;
	return;
}
`)
	require.NotEmpty(t, a.Diagnostics)

	a.Reset()
	assert.Empty(t, a.Diagnostics)
	assert.Equal(t, 1, a.Syms.Depth())
	assert.Empty(t, a.Emit.Quads)
}
