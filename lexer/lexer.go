package lexer

import (
	"strings"
	"unicode"
)

// Lexer tokenises the surface syntax of a regular path query or constraint
// and returns the tokens as a sequence.
type Lexer struct {
	input []rune
	pos   int
}

// New returns a new lexer that reads the input string. Positions reported in
// tokens and errors are 1-based rune offsets into the input.
func New(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
	}
}

// Tokens reads from the lexer's input and writes a sequence of tokens into tCh.
// If an error occurs when producing tokens, the error is associated with the
// next token in the channel. Token production stops when there was an error,
// or when the done channel is closed.
func (l *Lexer) Tokens() (tCh <-chan *Token, done chan<- struct{}) {
	tokenCh := make(chan *Token)
	tCh = tokenCh

	doneCh := make(chan struct{})
	done = doneCh

	go func() {
		defer close(tokenCh)

	loop:
		for {
			t, err := l.next()
			if err != nil {
				t.Err = err
			}

			select {
			case <-doneCh:
				break loop
			case tokenCh <- &t:
				// okay
			}

			if t.Type == EOF || t.Err != nil {
				break
			}
		}
	}()

	return
}

func (l *Lexer) next() (t Token, err error) {
	l.skipWhitespace()

	// anything after a terminator is discarded
	if l.eof() || l.currChar() == ';' {
		t = newToken(EOF, "", l.pos+1)
		return
	}

	pos := l.pos + 1
	c := l.currChar()

	switch {
	case isIdentFirstChar(c):
		t = newToken(Ident, l.readIdent(), pos)
	case c == '.':
		t = newToken(Dot, ".", pos)
		l.pos++
	case c == '|' || c == '∣':
		t = newToken(Or, string(c), pos)
		l.pos++
	case c == '(':
		t = newToken(LeftParen, "(", pos)
		l.pos++
	case c == ')':
		t = newToken(RightParen, ")", pos)
		l.pos++
	case c == '*':
		t = newToken(Star, "*", pos)
		l.pos++
	case c == '^':
		t = newToken(Caret, "^", pos)
		l.pos++
	case c == '⊆':
		t = newToken(Subset, "⊆", pos)
		l.pos++
	case c == '<' && l.nextCharIs('='):
		t = newToken(Subset, "<=", pos)
		l.pos += 2
	case c == '=':
		t = newToken(Assign, "=", pos)
		l.pos++
	case c == ':':
		t = newToken(Assign, ":", pos)
		l.pos++
	default:
		err = newLexError(c, pos)
	}

	return
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.currChar()) {
		l.pos++
	}
}

func (l *Lexer) readIdent() string {
	b := strings.Builder{}
	for !l.eof() && isIdentChar(l.currChar()) {
		b.WriteRune(l.currChar())
		l.pos++
	}
	return b.String()
}

func (l *Lexer) currChar() rune {
	return l.input[l.pos]
}

func (l *Lexer) nextCharIs(c rune) bool {
	return l.pos+1 < len(l.input) && l.input[l.pos+1] == c
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func newToken(t TokenType, literal string, pos int) Token {
	return Token{
		Type:    t,
		Literal: literal,
		Pos:     pos,
	}
}

func isIdentFirstChar(c rune) bool {
	return isIdentChar(c) && !isIntChar(c)
}

func isIdentChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || isIntChar(c)
}

func isIntChar(c rune) bool {
	return c >= '0' && c <= '9'
}
