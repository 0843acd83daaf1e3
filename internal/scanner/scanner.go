package scanner

import (
	"errors"
	"iter"
	"strconv"

	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/token"
)

// Scanner turns Lox source into tokens.
type Scanner interface {
	// Scan drains All. It returns every token, EOF included, and all scan
	// diagnostics joined, or nil.
	Scan() ([]token.Token, error)

	// All lazily scans the source. Every range over it restarts from the
	// beginning. Each step yields either a token or a diagnostic, the last
	// step is always the EOF token.
	All() iter.Seq2[token.Token, error]
}

type scanner struct {
	source []rune
}

// NewScanner returns a new Scanner.
func NewScanner(input string) Scanner {
	return &scanner{source: []rune(input)}
}

// Scan implements Scanner.
func (s *scanner) Scan() ([]token.Token, error) {
	var (
		tokens []token.Token
		errs   []error
	)

	for tok, err := range s.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
	}

	return tokens, errors.Join(errs...)
}

// All implements Scanner.
func (s *scanner) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		c := &cursor{source: s.source, line: 1}

		for !c.isAtEnd() {
			// We are at the beginning of the next lexeme.
			c.start = c.current
			tok, emitted, err := c.scanToken()
			if !emitted && err == nil {
				continue
			}
			if !yield(tok, err) {
				return
			}
		}

		yield(token.NewToken(token.EOF, "", nil, c.line), nil)
	}
}

// cursor is the state of a single pass over the source.
type cursor struct {
	source               []rune
	start, current, line int
}

func (c *cursor) isAtEnd() bool {
	return c.current >= len(c.source)
}

// scanToken consumes one lexeme. Whitespace and comments produce nothing.
func (c *cursor) scanToken() (tok token.Token, emitted bool, err error) {
	r := c.advance()

	switch r {
	case '(':
		return c.makeToken(token.LEFT_PAREN), true, nil
	case ')':
		return c.makeToken(token.RIGHT_PAREN), true, nil
	case '{':
		return c.makeToken(token.LEFT_BRACE), true, nil
	case '}':
		return c.makeToken(token.RIGHT_BRACE), true, nil
	case ',':
		return c.makeToken(token.COMMA), true, nil
	case '.':
		return c.makeToken(token.DOT), true, nil
	case '-':
		return c.makeToken(token.MINUS), true, nil
	case '+':
		return c.makeToken(token.PLUS), true, nil
	case ';':
		return c.makeToken(token.SEMICOLON), true, nil
	case '*':
		return c.makeToken(token.STAR), true, nil
	case '!':
		return c.makeMatchToken('=', token.BANG_EQUAL, token.BANG), true, nil
	case '=':
		return c.makeMatchToken('=', token.EQUAL_EQUAL, token.EQUAL), true, nil
	case '<':
		return c.makeMatchToken('=', token.LESS_EQUAL, token.LESS), true, nil
	case '>':
		return c.makeMatchToken('=', token.GREATER_EQUAL, token.GREATER), true, nil
	case '/':
		if c.match('/') {
			c.comment()
			return tok, false, nil
		}
		return c.makeToken(token.SLASH), true, nil
	case ' ', '\r', '\t', '\n':
		// Ignore whitespace.
		return tok, false, nil
	case '"':
		return c.string()
	}

	switch {
	case isDigit(r):
		return c.number()
	case isAlpha(r):
		return c.reservedOrIdentifier(), true, nil
	}

	return tok, false, loxerrors.NewScanError(c.line, loxerrors.ErrScanUnexpectedCharacter, strconv.QuoteRune(r))
}

func (c *cursor) peek() rune {
	if c.isAtEnd() {
		return '\000'
	}
	return c.source[c.current]
}

func (c *cursor) peekNext() rune {
	if c.current+1 >= len(c.source) {
		return '\000'
	}
	return c.source[c.current+1]
}

func (c *cursor) advance() rune {
	if c.source[c.current] == '\n' {
		c.line++
	}
	c.current++
	return c.source[c.current-1]
}

func (c *cursor) match(expected rune) bool {
	if !c.isAtEnd() && expected == c.peek() {
		c.advance()
		return true
	}

	return false
}

func (c *cursor) makeMatchToken(lookAhead rune, ifMatch, ifNotMatched token.TokenType) token.Token {
	if c.match(lookAhead) {
		return c.makeToken(ifMatch)
	}
	return c.makeToken(ifNotMatched)
}

func (c *cursor) makeToken(t token.TokenType) token.Token {
	return c.makeTokenLiteral(t, nil)
}

func (c *cursor) makeTokenLiteral(t token.TokenType, literal any) token.Token {
	return token.NewToken(t, string(c.source[c.start:c.current]), literal, c.line)
}

func (c *cursor) comment() {
	for c.peek() != '\n' && !c.isAtEnd() {
		c.advance()
	}
}

func (c *cursor) string() (token.Token, bool, error) {
	startLine := c.line
	for !c.isAtEnd() && c.peek() != '"' {
		c.advance()
	}

	if c.isAtEnd() {
		return token.Token{}, false, loxerrors.NewScanError(startLine, loxerrors.ErrScanUnterminatedString, "")
	}

	// The closing ".
	c.advance()

	value := c.source[c.start+1 : c.current-1]
	return c.makeTokenLiteral(token.STRING, string(value)), true, nil
}

func (c *cursor) number() (token.Token, bool, error) {
	for isDigit(c.peek()) {
		c.advance()
	}

	// A fractional part needs a digit after the dot.
	if c.peek() == '.' && isDigit(c.peekNext()) {
		c.advance()

		for isDigit(c.peek()) {
			c.advance()
		}
	}

	// The lexeme is always digits with an optional fraction, so the only
	// possible error is ErrRange, and the ±Inf it yields is kept.
	value, _ := strconv.ParseFloat(string(c.source[c.start:c.current]), 64)
	return c.makeTokenLiteral(token.NUMBER, value), true, nil
}

func (c *cursor) reservedOrIdentifier() token.Token {
	for isAlphaNumeric(c.peek()) {
		c.advance()
	}

	tokenType := token.IDENTIFIER
	name := string(c.source[c.start:c.current])
	if keyword, ok := token.Keyword(name); ok {
		tokenType = keyword
	}
	return c.makeToken(tokenType)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

var _ Scanner = (*scanner)(nil)
