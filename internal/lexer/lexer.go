package lexer

import (
	"fmt"
	"log/slog"

	"github.com/tacklang/tack/internal/types"
)

// Lexer tokenizes Tack source text.
//
// The lexer is fail-fast: the first lexical error stops tokenization
// and is returned as a *types.SyntaxError. An import must abort on a
// malformed file rather than degrade.
type Lexer struct {
	source []byte
	pos    int
	types.Logger
}

// New returns a Lexer that tokenizes the given source bytes.
// Pass nil for logger to disable logging.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		pos:    0,
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

func (l *Lexer) traceToken(tok Token) {
	if l.TraceEnabled() {
		l.Trace("token",
			slog.String("kind", tok.Kind.String()),
			slog.Int("start", int(tok.Span.Start)),
			slog.Int("end", int(tok.Span.End)))
	}
}

// Tokenize consumes all source text and returns the token stream,
// ending with a TokEOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	estimatedTokens := max(len(l.source)/6, 16)
	tokens := make([]Token, 0, estimatedTokens)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	l.Log(slog.LevelDebug, "tokenization complete", slog.Int("tokens", len(tokens)))
	return tokens, nil
}

// NextToken advances the lexer and returns the next token.
// Returns TokEOF when all input is consumed.
func (l *Lexer) NextToken() (Token, error) {
	l.skipBlank()

	start := l.pos

	b, ok := l.peek()
	if !ok {
		return l.token(TokEOF, start), nil
	}

	switch {
	case b == '\n' || b == '\r':
		l.skipLineEnding()
		return l.token(TokNewline, start), nil
	case b == '.':
		l.advance()
		return l.token(TokDot, start), nil
	case b == ',':
		l.advance()
		return l.token(TokComma, start), nil
	case b == '=':
		l.advance()
		return l.token(TokAssign, start), nil
	case b == '"':
		return l.scanString(start)
	case isDigit(b):
		return l.scanNumber(start)
	case isIdentStart(b):
		return l.scanIdent(start)
	default:
		return Token{}, l.error(start, fmt.Sprintf("unexpected character %q", b))
	}
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	return b, true
}

// skipBlank consumes spaces, tabs, and comments, but not line endings:
// newlines terminate statements and must surface as tokens.
func (l *Lexer) skipBlank() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		switch {
		case b == ' ' || b == '\t':
			l.advance()
		case b == '#':
			l.skipToEOL()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineEnding() {
	b, ok := l.advance()
	if !ok {
		return
	}
	if b == '\r' {
		if next, ok := l.peek(); ok && next == '\n' {
			l.advance()
		}
	}
}

// skipToEOL consumes up to, but not including, the next line ending.
func (l *Lexer) skipToEOL() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' || b == '\r' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanIdent(start int) (Token, error) {
	for {
		b, ok := l.peek()
		if !ok || !isIdentPart(b) {
			break
		}
		l.advance()
	}
	text := string(l.source[start:l.pos])
	return l.token(KeywordKind(text), start), nil
}

func (l *Lexer) scanNumber(start int) (Token, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && isIdentStart(b) {
		return Token{}, l.error(l.pos, "malformed number literal")
	}
	return l.token(TokNumber, start), nil
}

func (l *Lexer) scanString(start int) (Token, error) {
	l.advance() // opening quote
	for {
		b, ok := l.advance()
		if !ok || b == '\n' || b == '\r' {
			return Token{}, l.error(start, "unterminated string literal")
		}
		switch b {
		case '"':
			return l.token(TokString, start), nil
		case '\\':
			if _, ok := l.advance(); !ok {
				return Token{}, l.error(start, "unterminated string literal")
			}
		}
	}
}

func (l *Lexer) error(offset int, message string) error {
	return types.NewSyntaxError(l.source, types.ByteOffset(offset), message)
}

func (l *Lexer) spanFrom(start int) types.Span {
	return types.Span{
		Start: types.ByteOffset(start),
		End:   types.ByteOffset(l.pos),
	}
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	tok := Token{
		Kind: kind,
		Span: l.spanFrom(start),
	}
	l.traceToken(tok)
	return tok
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
