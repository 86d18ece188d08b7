package parser

import (
	"errors"
	"fmt"

	"github.com/graphquality/rpcheck/lexer"
)

type parseError struct {
	pos      int
	expected string
	found    string
	eof      bool
}

func newTokenError(t *lexer.Token, expected string) *parseError {
	return &parseError{
		pos:      t.Pos,
		expected: expected,
		found:    t.String(),
	}
}

func newEOFError(pos int, expected string) *parseError {
	return &parseError{
		pos:      pos,
		expected: expected,
		eof:      true,
	}
}

// IsParseError returns whether e is a parse error that occurred while parsing
// a path query.
func IsParseError(e error) bool {
	var pe *parseError
	return errors.As(e, &pe)
}

// ErrorPos returns the column at which the parse error e occurred.
// ok will be true if e actually was a parse error.
func ErrorPos(e error) (pos int, ok bool) {
	var pe *parseError
	if errors.As(e, &pe) {
		pos = pe.pos
		ok = true
	}
	return
}

func (e *parseError) Error() string {
	if e.eof {
		return fmt.Sprintf("parse error at column %d: expected %s, got end of input", e.pos, e.expected)
	}
	return fmt.Sprintf("parse error at column %d: expected %s, got %s instead", e.pos, e.expected, e.found)
}
