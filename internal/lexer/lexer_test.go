package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(t *testing.T, source string) []TokenKind {
	t.Helper()
	tokens, err := New([]byte(source), nil).Tokenize()
	require.NoError(t, err)
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func tokenTexts(t *testing.T, source string) []string {
	t.Helper()
	tokens, err := New([]byte(source), nil).Tokenize()
	require.NoError(t, err)
	var texts []string
	for _, tok := range tokens {
		if tok.Kind != TokEOF {
			texts = append(texts, source[tok.Span.Start:tok.Span.End])
		}
	}
	return texts
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, []TokenKind{TokEOF}, tokenKinds(t, ""))
}

func TestPunctuation(t *testing.T) {
	expected := []TokenKind{TokDot, TokComma, TokAssign, TokEOF}
	assert.Equal(t, expected, tokenKinds(t, ". , ="))
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	expected := []TokenKind{
		TokKwImport, TokIdent, TokKwAs, TokIdent,
		TokKwFrom, TokIdent, TokEOF,
	}
	assert.Equal(t, expected, tokenKinds(t, "import foo as bar from baz"))
}

func TestIdentifierTexts(t *testing.T) {
	expected := []string{"alpha", "_beta", "g4mma"}
	assert.Equal(t, expected, tokenTexts(t, "alpha _beta g4mma"))
}

func TestDottedPath(t *testing.T) {
	expected := []TokenKind{TokIdent, TokDot, TokIdent, TokDot, TokIdent, TokEOF}
	assert.Equal(t, expected, tokenKinds(t, "a.b.c"))
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, []string{"0", "1", "42", "12345"}, tokenTexts(t, "0 1 42 12345"))
}

func TestMalformedNumber(t *testing.T) {
	_, err := New([]byte("12ab"), nil).Tokenize()
	assert.Error(t, err)
}

func TestStrings(t *testing.T) {
	texts := tokenTexts(t, `x = "hello world"`)
	assert.Equal(t, []string{"x", "=", `"hello world"`}, texts)
}

func TestStringEscapes(t *testing.T) {
	kinds := tokenKinds(t, `"a \" b \\"`)
	assert.Equal(t, []TokenKind{TokString, TokEOF}, kinds)
}

func TestUnterminatedString(t *testing.T) {
	_, err := New([]byte(`"no closing quote`), nil).Tokenize()
	assert.Error(t, err)
}

func TestStringMayNotSpanLines(t *testing.T) {
	_, err := New([]byte("\"first\nsecond\""), nil).Tokenize()
	assert.Error(t, err)
}

func TestNewlinesAreTokens(t *testing.T) {
	expected := []TokenKind{TokIdent, TokNewline, TokIdent, TokNewline, TokEOF}
	assert.Equal(t, expected, tokenKinds(t, "a\nb\n"))
}

func TestCRLFIsOneNewline(t *testing.T) {
	expected := []TokenKind{TokIdent, TokNewline, TokIdent, TokEOF}
	assert.Equal(t, expected, tokenKinds(t, "a\r\nb"))
}

func TestCommentsAreSkipped(t *testing.T) {
	expected := []TokenKind{TokIdent, TokNewline, TokIdent, TokEOF}
	assert.Equal(t, expected, tokenKinds(t, "a # trailing comment\nb"))
}

func TestCommentOnlyLine(t *testing.T) {
	expected := []TokenKind{TokNewline, TokIdent, TokEOF}
	assert.Equal(t, expected, tokenKinds(t, "# just a comment\nx"))
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := New([]byte("a = $"), nil).Tokenize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected character")
}

func TestSpans(t *testing.T) {
	source := "import foo"
	tokens, err := New([]byte(source), nil).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "import", source[tokens[0].Span.Start:tokens[0].Span.End])
	assert.Equal(t, "foo", source[tokens[1].Span.Start:tokens[1].Span.End])
}
