package lexer

import (
	"testing"

	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
	"github.com/ashgrove/rustlite/internal/ictiobus/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tokenize_EndsWithEOF(t *testing.T) {
	toks, err := Tokenize("let x = 1;")
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)

	eofCount := 0
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			eofCount++
		}
	}
	assert.Equal(t, 1, eofCount)
}

func Test_Tokenize_Keywords(t *testing.T) {
	toks, err := Tokenize("fn let mut if else while return for in loop break continue i32")
	require.NoError(t, err)

	expected := []token.Kind{
		token.KwFn, token.KwLet, token.KwMut, token.KwIf, token.KwElse, token.KwWhile,
		token.KwReturn, token.KwFor, token.KwIn, token.KwLoop, token.KwBreak, token.KwContinue,
		token.KwI32, token.EOF,
	}
	require.Len(t, toks, len(expected))
	for i, k := range expected {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func Test_Tokenize_LongestMatchOperators(t *testing.T) {
	toks, err := Tokenize("<<= >>= == <= -> .. =>")
	require.NoError(t, err)

	expected := []token.Kind{
		token.OpShlEq, token.OpShrEq, token.OpEq, token.OpLe, token.OpArrow, token.OpDotDot, token.OpFatArrow, token.EOF,
	}
	require.Len(t, toks, len(expected))
	for i, k := range expected {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func Test_Tokenize_DotNotFollowedByDigitIsSeparateDelimiter(t *testing.T) {
	toks, err := Tokenize("3.")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.IntLiteral, toks[0].Kind)
	assert.Equal(t, "3", toks[0].Lexeme)
	assert.Equal(t, token.OpDot, toks[1].Kind)
	assert.Equal(t, token.EOF, toks[2].Kind)
}

func Test_Tokenize_FloatLiteral(t *testing.T) {
	toks, err := Tokenize("3.14")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.FloatLiteral, toks[0].Kind)
	assert.Equal(t, 3.14, toks[0].FloatVal)
}

func Test_Tokenize_NestedBlockComments(t *testing.T) {
	toks, err := Tokenize("/* outer /* inner */ still outer */ let")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.KwLet, toks[0].Kind)
}

func Test_Tokenize_UnterminatedNestedComment(t *testing.T) {
	_, err := Tokenize("/* outer /* inner */ still unterminated")
	require.Error(t, err)
	var lexErr *rerrors.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, rerrors.LexUnterminatedComment, lexErr.Kind)
}

func Test_Tokenize_LineComment(t *testing.T) {
	toks, err := Tokenize("let // comment here\nx")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.KwLet, toks[0].Kind)
	assert.Equal(t, token.Identifier, toks[1].Kind)
	assert.Equal(t, 2, toks[1].Line)
}

func Test_Tokenize_StringEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\nb\tc\\d\"e\x"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\tc\\d\"e\\x", toks[0].Lexeme)
}

func Test_Tokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`"abc`)
	require.Error(t, err)
	var lexErr *rerrors.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, rerrors.LexUnterminatedString, lexErr.Kind)
}

func Test_Tokenize_UnknownCharacter(t *testing.T) {
	_, err := Tokenize("let x = @;")
	require.Error(t, err)
	var lexErr *rerrors.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, rerrors.LexUnknownCharacter, lexErr.Kind)
}

func Test_Tokenize_LineColumnTracking(t *testing.T) {
	toks, err := Tokenize("let\nx")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Column)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 1, toks[1].Column)
}
