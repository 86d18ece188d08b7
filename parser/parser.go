package parser

import (
	"github.com/graphquality/rpcheck/ast"
	"github.com/graphquality/rpcheck/lexer"
)

// kleeneMax is the repetition cap of the bounded Kleene expansion:
// d* expands to ε ∣ d ∣ d.d ∣ d.d.d.
const kleeneMax = 3

// Parser parses a sequence of lexical tokens produced by a lexer, transforming
// them to a disjunction of atom sequences. Alternation distributes over
// concatenation during parsing, so the result contains no grouping.
type Parser struct {
	ch        <-chan *lexer.Token
	doneCh    chan<- struct{}
	currToken *lexer.Token
	nextToken *lexer.Token
}

var startToken = lexer.Token{
	Type: -1,
}

// New returns a new parser that reads a sequence of tokens from tCh. When the
// parser is done parsing, or when an error occurred, it closes doneCh.
func New(tCh <-chan *lexer.Token, doneCh chan<- struct{}) *Parser {
	return &Parser{
		ch:     tCh,
		doneCh: doneCh,
	}
}

// Parse reads the sequence of tokens and transforms it into a disjunction of
// sequences. The whole input must form a single query.
func (p *Parser) Parse() (ast.RPQ, error) {
	defer close(p.doneCh)

	if err := p.initialize(); err != nil {
		return nil, err
	}

	if p.currTokenIs(lexer.EOF) {
		return nil, newEOFError(p.currToken.Pos, "query")
	}

	q, err := p.parseAlt()
	if err != nil {
		return nil, err
	}

	if !p.currTokenIs(lexer.EOF) {
		return nil, newTokenError(p.currToken, "end of query")
	}

	return q.Dedup(), nil
}

// alt := concat ( OR concat )*
func (p *Parser) parseAlt() (ast.RPQ, error) {
	q, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	for p.currTokenIs(lexer.Or) {
		if err = p.readNextToken(); err != nil {
			return nil, err
		}

		more, err := p.parseConcat()
		if err != nil {
			return nil, err
		}

		q = append(q, more...)
	}

	return q, nil
}

// concat := factor ( ( DOT )? factor )*
//
// The dot is optional: adjacent factors concatenate. Concatenation of two
// disjunctions is their cross product.
func (p *Parser) parseConcat() (ast.RPQ, error) {
	q, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		if p.currTokenIs(lexer.Dot) {
			if err = p.readNextToken(); err != nil {
				return nil, err
			}
		} else if !p.atFactorStart() {
			break
		}

		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		q = cross(q, f)
	}

	return q, nil
}

// factor := base ( STAR )?
func (p *Parser) parseFactor() (ast.RPQ, error) {
	q, err := p.parseBase()
	if err != nil {
		return nil, err
	}

	if p.currTokenIs(lexer.Star) {
		if err = p.readNextToken(); err != nil {
			return nil, err
		}

		q = kleene(q)
	}

	return q, nil
}

// base := CARET? IDENT | LPAREN alt RPAREN
func (p *Parser) parseBase() (ast.RPQ, error) {
	switch p.currToken.Type {
	case lexer.Caret:
		if err := p.readNextToken(); err != nil {
			return nil, err
		}

		if !p.currTokenIs(lexer.Ident) {
			return nil, newTokenError(p.currToken, "relation name")
		}

		a := ast.Atom{Inverse: true, Label: p.currToken.Literal}

		return ast.RPQ{ast.Sequence{a}}, p.readNextToken()

	case lexer.Ident:
		a := ast.Atom{Label: p.currToken.Literal}

		return ast.RPQ{ast.Sequence{a}}, p.readNextToken()

	case lexer.LeftParen:
		if err := p.readNextToken(); err != nil {
			return nil, err
		}

		q, err := p.parseAlt()
		if err != nil {
			return nil, err
		}

		if !p.currTokenIs(lexer.RightParen) {
			return nil, newTokenError(p.currToken, "right paren")
		}

		return q, p.readNextToken()

	case lexer.EOF:
		return nil, newEOFError(p.currToken.Pos, "relation name or group")

	default:
		return nil, newTokenError(p.currToken, "relation name or group")
	}
}

func (p *Parser) atFactorStart() bool {
	return p.currTokenIs(lexer.Ident) || p.currTokenIs(lexer.Caret) || p.currTokenIs(lexer.LeftParen)
}

// cross concatenates every sequence of a with every sequence of b.
func cross(a ast.RPQ, b ast.RPQ) ast.RPQ {
	out := make(ast.RPQ, 0, len(a)*len(b))
	for _, s := range a {
		for _, t := range b {
			out = append(out, s.Concat(t))
		}
	}
	return out
}

// kleene applies the bounded Kleene expansion to the disjunction d:
// ε plus all concatenations of d with itself up to kleeneMax repetitions.
// The ε branch survives only until expansion; it is filtered before a
// sequence is offered to evaluation.
func kleene(d ast.RPQ) ast.RPQ {
	out := ast.RPQ{ast.Sequence{}}
	pow := ast.RPQ{ast.Sequence{}}

	for i := 0; i < kleeneMax; i++ {
		pow = cross(pow, d)
		out = append(out, pow...)
	}

	return out.Dedup()
}

func (p *Parser) initialize() error {
	// prevent nil pointers
	p.currToken = &startToken
	p.nextToken = &startToken

	if err := p.readNextToken(); err != nil {
		return err
	}

	return p.readNextToken()
}

func (p *Parser) currTokenIs(t lexer.TokenType) bool {
	return p.currToken.Type == t
}

func (p *Parser) readNextToken() error {
	if p.currTokenIs(lexer.EOF) {
		return nil
	}

	p.currToken = p.nextToken

	if p.currTokenIs(lexer.EOF) {
		return nil
	}

	p.nextToken = <-p.ch

	if p.nextToken.Err != nil {
		return p.nextToken.Err
	}

	return nil
}
