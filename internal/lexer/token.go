// Package lexer provides tokenization for Tack source text.
package lexer

import (
	"github.com/tacklang/tack/internal/types"
)

// Token is a token with kind and source span.
type Token struct {
	Kind TokenKind
	Span types.Span
}

// NewToken creates a new token.
func NewToken(kind TokenKind, span types.Span) Token {
	return Token{Kind: kind, Span: span}
}

// TokenKind identifies a token type.
type TokenKind int

const (
	// TokEOF is end of input.
	TokEOF TokenKind = iota
	// TokNewline terminates a statement.
	TokNewline

	// TokIdent is an identifier.
	TokIdent
	// TokNumber is an unsigned decimal integer literal.
	TokNumber
	// TokString is a double-quoted string literal.
	TokString

	// TokDot is '.'.
	TokDot
	// TokComma is ','.
	TokComma
	// TokAssign is '='.
	TokAssign

	// TokKwImport is 'import'.
	TokKwImport
	// TokKwFrom is 'from'.
	TokKwFrom
	// TokKwAs is 'as'.
	TokKwAs
)

var tokenNames = map[TokenKind]string{
	TokEOF:      "end of input",
	TokNewline:  "newline",
	TokIdent:    "identifier",
	TokNumber:   "number",
	TokString:   "string",
	TokDot:      "'.'",
	TokComma:    "','",
	TokAssign:   "'='",
	TokKwImport: "'import'",
	TokKwFrom:   "'from'",
	TokKwAs:     "'as'",
}

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown token"
}

// keywords maps identifier text to keyword token kinds.
var keywords = map[string]TokenKind{
	"import": TokKwImport,
	"from":   TokKwFrom,
	"as":     TokKwAs,
}

// KeywordKind returns the keyword kind for the given identifier text,
// or TokIdent if it is not a keyword.
func KeywordKind(text string) TokenKind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return TokIdent
}
