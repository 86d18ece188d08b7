package lexer

import "fmt"

type Token struct {
	Type    TokenType
	Literal string
	Pos     int
	Err     error
}

type TokenType int

const (
	// EOF is the token type returned when a lexer has reached the end of its input.
	EOF = iota

	// Ident is the token type used for a relation identifier.
	Ident

	// Dot is the token type used for the concatenation character '.'.
	Dot

	// Or is the token type used for the alternation characters '|' and '∣',
	// which are treated identically.
	Or

	// LeftParen is the token type used for the left parenthesis character '('.
	LeftParen

	// RightParen is the token type used for the right parenthesis character ')'.
	RightParen

	// Star is the token type used for the Kleene star character '*'.
	Star

	// Caret is the token type used for the inverse marker '^'.
	Caret

	// Subset is the token type used for the inclusion operator, written either
	// as '⊆' or as the character sequence "<=".
	Subset

	// Assign is the token type used for the name delimiters '=' and ':'.
	Assign
)

var tokenTypeNames = map[TokenType]string{
	EOF:        "EOF",
	Ident:      "IDENT",
	Dot:        "DOT",
	Or:         "OR",
	LeftParen:  "LPAREN",
	RightParen: "RPAREN",
	Star:       "STAR",
	Caret:      "CARET",
	Subset:     "SUBSET",
	Assign:     "ASSIGN",
}

func (t Token) String() string {
	return fmt.Sprintf("'%s' (%s)", t.Literal, t.Type)
}

func (t TokenType) String() string {
	return tokenTypeNames[t]
}
