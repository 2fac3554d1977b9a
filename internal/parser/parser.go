// Package parser provides parsing of Tack source files into an AST.
//
// The parser is fail-fast: the first syntax error aborts the parse and
// is returned as a *types.SyntaxError. A file that does not parse must
// fail the import that requested it, so there is no error recovery.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tacklang/tack/internal/ast"
	"github.com/tacklang/tack/internal/lexer"
	"github.com/tacklang/tack/internal/types"
)

// Parser converts a token stream into a file AST.
type Parser struct {
	source []byte
	tokens []lexer.Token
	pos    int
	types.Logger
}

// New returns a Parser for the given source.
// Pass nil for logger to disable logging.
func New(source []byte, logger *slog.Logger) (*Parser, error) {
	var lexLogger *slog.Logger
	if logger != nil {
		lexLogger = logger.With(slog.String("component", "lexer"))
	}
	tokens, err := lexer.New(source, lexLogger).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{
		source: source,
		tokens: tokens,
		Logger: types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized", slog.Int("tokens", len(tokens)))
	return p, nil
}

// Parse parses source text in one call.
func Parse(source []byte, logger *slog.Logger) (*ast.File, error) {
	p, err := New(source, logger)
	if err != nil {
		return nil, err
	}
	return p.ParseFile()
}

// ParseFile parses the whole token stream into a file AST.
func (p *Parser) ParseFile() (*ast.File, error) {
	file := &ast.File{
		Span: types.NewSpan(0, types.ByteOffset(len(p.source))),
	}

	for !p.isEOF() {
		if p.check(lexer.TokNewline) {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		file.Stmts = append(file.Stmts, stmt)
		if err := p.expectStatementEnd(); err != nil {
			return nil, err
		}
	}

	p.Log(slog.LevelDebug, "parsing complete", slog.Int("statements", len(file.Stmts)))
	return file, nil
}

func (p *Parser) isEOF() bool {
	return p.peek().Kind == lexer.TokEOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) prev() lexer.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.TokEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf("expected %s, found %s", kind, p.peek().Kind)
}

func (p *Parser) expectStatementEnd() error {
	if p.isEOF() {
		return nil
	}
	_, err := p.expect(lexer.TokNewline)
	return err
}

func (p *Parser) text(span types.Span) string {
	return string(p.source[span.Start:span.End])
}

func (p *Parser) makeIdent(token lexer.Token) ast.Ident {
	return ast.NewIdent(p.text(token.Span), token.Span)
}

func (p *Parser) errorf(format string, args ...any) error {
	return types.NewSyntaxError(p.source, p.peek().Span.Start, fmt.Sprintf(format, args...))
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.peek().Kind {
	case lexer.TokKwImport:
		return p.parseImport()
	case lexer.TokKwFrom:
		return p.parseFromImport()
	case lexer.TokIdent:
		return p.parseAssign()
	default:
		return nil, p.errorf("expected statement, found %s", p.peek().Kind)
	}
}

// parseImport parses: 'import' dotted ['as' ident] (',' dotted ['as' ident])*
func (p *Parser) parseImport() (ast.Stmt, error) {
	kw := p.advance()

	var targets []ast.ImportTarget
	for {
		target, err := p.parseImportTarget()
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}

	return &ast.ImportStmt{
		Targets: targets,
		Span:    types.NewSpan(kw.Span.Start, p.prev().Span.End),
	}, nil
}

func (p *Parser) parseImportTarget() (ast.ImportTarget, error) {
	path, err := p.parseDottedName()
	if err != nil {
		return ast.ImportTarget{}, err
	}

	target := ast.ImportTarget{
		Path: path,
		Span: path.Span,
	}
	if p.check(lexer.TokKwAs) {
		p.advance()
		tok, err := p.expect(lexer.TokIdent)
		if err != nil {
			return ast.ImportTarget{}, err
		}
		alias := p.makeIdent(tok)
		target.Alias = &alias
		target.Span = types.NewSpan(path.Span.Start, tok.Span.End)
	}
	return target, nil
}

// parseFromImport parses: 'from' dotted 'import' ident ['as' ident] (',' ...)*
func (p *Parser) parseFromImport() (ast.Stmt, error) {
	kw := p.advance()

	module, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokKwImport); err != nil {
		return nil, err
	}

	var names []ast.ImportedName
	for {
		tok, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		imported := ast.ImportedName{
			Name: p.makeIdent(tok),
			Span: tok.Span,
		}
		if p.check(lexer.TokKwAs) {
			p.advance()
			aliasTok, err := p.expect(lexer.TokIdent)
			if err != nil {
				return nil, err
			}
			alias := p.makeIdent(aliasTok)
			imported.Alias = &alias
			imported.Span = types.NewSpan(tok.Span.Start, aliasTok.Span.End)
		}
		names = append(names, imported)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}

	return &ast.FromImportStmt{
		Module: module,
		Names:  names,
		Span:   types.NewSpan(kw.Span.Start, p.prev().Span.End),
	}, nil
}

// parseAssign parses: ident '=' expr
func (p *Parser) parseAssign() (ast.Stmt, error) {
	nameTok := p.advance()
	if _, err := p.expect(lexer.TokAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{
		Name:  p.makeIdent(nameTok),
		Value: value,
		Span:  types.NewSpan(nameTok.Span.Start, value.ExprSpan().End),
	}, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	switch p.peek().Kind {
	case lexer.TokString:
		tok := p.advance()
		value, err := p.decodeString(tok)
		if err != nil {
			return nil, err
		}
		return &ast.StringLit{Value: value, Span: tok.Span}, nil
	case lexer.TokNumber:
		tok := p.advance()
		value, err := strconv.ParseInt(p.text(tok.Span), 10, 64)
		if err != nil {
			return nil, types.NewSyntaxError(p.source, tok.Span.Start, "integer literal out of range")
		}
		return &ast.NumberLit{Value: value, Span: tok.Span}, nil
	case lexer.TokIdent:
		path, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		return &ast.DottedRef{Path: path, Span: path.Span}, nil
	default:
		return nil, p.errorf("expected expression, found %s", p.peek().Kind)
	}
}

func (p *Parser) parseDottedName() (ast.DottedName, error) {
	first, err := p.expect(lexer.TokIdent)
	if err != nil {
		return ast.DottedName{}, err
	}
	parts := []ast.Ident{p.makeIdent(first)}
	for p.check(lexer.TokDot) {
		p.advance()
		tok, err := p.expect(lexer.TokIdent)
		if err != nil {
			return ast.DottedName{}, err
		}
		parts = append(parts, p.makeIdent(tok))
	}
	span := types.NewSpan(first.Span.Start, parts[len(parts)-1].Span.End)
	return ast.NewDottedName(parts, span), nil
}

// decodeString strips the quotes from a string token and processes
// backslash escapes (\\, \", \n, \t).
func (p *Parser) decodeString(tok lexer.Token) (string, error) {
	raw := p.text(tok.Span)
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			return "", types.NewSyntaxError(p.source, tok.Span.Start,
				fmt.Sprintf("unsupported escape sequence \\%c", body[i]))
		}
	}
	return b.String(), nil
}
