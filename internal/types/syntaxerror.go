package types

import "fmt"

// SyntaxError reports a lexical or parse failure at a source position.
// Path is filled in by the caller that knows which file was parsed.
type SyntaxError struct {
	Path string
	Line int // 1-based
	Col  int // 1-based, in bytes
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// NewSyntaxError builds a SyntaxError at the given byte offset,
// computing line and column from the source text.
func NewSyntaxError(source []byte, offset ByteOffset, msg string) *SyntaxError {
	line, col := LineCol(source, offset)
	return &SyntaxError{Line: line, Col: col, Msg: msg}
}

// LineCol converts a byte offset into 1-based line and column numbers.
func LineCol(source []byte, offset ByteOffset) (line, col int) {
	line, col = 1, 1
	end := int(offset)
	if end > len(source) {
		end = len(source)
	}
	for _, b := range source[:end] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
