package scanner_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/scanner"
	"github.com/loxlang/golox/internal/token"
)

func TestScanTokens(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name   string
		input  string
		tokens []string // line, type, quoted lexeme and literal if any
		errs   []string // every diagnostic, in source order
	}{
		{name: "empty", input: "", tokens: []string{`1 EOF ""`}},
		{
			name:   "unexpected character",
			input:  "⌘",
			tokens: []string{`1 EOF ""`},
			errs:   []string{"[line 1] Error: Unexpected character. '⌘'"},
		},
		{
			name:   "unterminated string reports its first line",
			input:  "\n\"abc\n",
			tokens: []string{`3 EOF ""`},
			errs:   []string{"[line 2] Error: Unterminated string."},
		},
		{
			name:  "every error is kept",
			input: "a @ b\n# \"c",
			tokens: []string{
				`1 IDENTIFIER "a"`,
				`1 IDENTIFIER "b"`,
				`2 EOF ""`,
			},
			errs: []string{
				"[line 1] Error: Unexpected character. '@'",
				"[line 2] Error: Unexpected character. '#'",
				"[line 2] Error: Unterminated string.",
			},
		},
		{
			name:  "single character tokens",
			input: "(){},.-+;*/",
			tokens: []string{
				`1 LEFT_PAREN "("`, `1 RIGHT_PAREN ")"`, `1 LEFT_BRACE "{"`, `1 RIGHT_BRACE "}"`,
				`1 COMMA ","`, `1 DOT "."`, `1 MINUS "-"`, `1 PLUS "+"`,
				`1 SEMICOLON ";"`, `1 STAR "*"`, `1 SLASH "/"`, `1 EOF ""`,
			},
		},
		{
			name:   "two character operators are greedy",
			input:  "!==!<====>=>",
			tokens: []string{`1 BANG_EQUAL "!="`, `1 EQUAL_EQUAL "=="`, `1 BANG "!"`, `1 LESS_EQUAL "<="`, `1 EQUAL_EQUAL "=="`, `1 EQUAL "="`, `1 GREATER_EQUAL ">="`, `1 GREATER ">"`, `1 EOF ""`},
		},
		{
			name:   "comment runs to end of line",
			input:  "!// = ( \n<",
			tokens: []string{`1 BANG "!"`, `2 LESS "<"`, `2 EOF ""`},
		},
		{
			name:   "no block comments",
			input:  "/**/",
			tokens: []string{`1 SLASH "/"`, `1 STAR "*"`, `1 STAR "*"`, `1 SLASH "/"`, `1 EOF ""`},
		},
		{
			name:   "whitespace",
			input:  "! \r\t\n=",
			tokens: []string{`1 BANG "!"`, `2 EQUAL "="`, `2 EOF ""`},
		},
		{
			name:   "strings",
			input:  `"" "s" "a\nb"`,
			tokens: []string{`1 STRING "\"\"" = ""`, `1 STRING "\"s\"" = "s"`, `1 STRING "\"a\\nb\"" = "a\\nb"`, `1 EOF ""`},
		},
		{
			name:   "multiline string ends on its last line",
			input:  "\"a\nb\"\nx",
			tokens: []string{`2 STRING "\"a\nb\"" = "a\nb"`, `3 IDENTIFIER "x"`, `3 EOF ""`},
		},
		{
			name:   "numbers",
			input:  "10 0010 12.34 0012.34",
			tokens: []string{`1 NUMBER "10" = 10`, `1 NUMBER "0010" = 10`, `1 NUMBER "12.34" = 12.34`, `1 NUMBER "0012.34" = 12.34`, `1 EOF ""`},
		},
		{
			name:   "dot needs a digit on both sides",
			input:  "12. .5",
			tokens: []string{`1 NUMBER "12" = 12`, `1 DOT "."`, `1 DOT "."`, `1 NUMBER "5" = 5`, `1 EOF ""`},
		},
		{
			name:   "method call on a number",
			input:  "1.abs",
			tokens: []string{`1 NUMBER "1" = 1`, `1 DOT "."`, `1 IDENTIFIER "abs"`, `1 EOF ""`},
		},
		{
			name:  "keywords",
			input: "and break class else false for fun if nil or print return super this true var while",
			tokens: []string{
				`1 AND "and"`, `1 BREAK "break"`, `1 CLASS "class"`, `1 ELSE "else"`, `1 FALSE "false"`, `1 FOR "for"`,
				`1 FUN "fun"`, `1 IF "if"`, `1 NIL "nil"`, `1 OR "or"`, `1 PRINT "print"`, `1 RETURN "return"`,
				`1 SUPER "super"`, `1 THIS "this"`, `1 TRUE "true"`, `1 VAR "var"`, `1 WHILE "while"`, `1 EOF ""`,
			},
		},
		{
			name:   "identifiers",
			input:  "forest classy _x a1 ANDY",
			tokens: []string{`1 IDENTIFIER "forest"`, `1 IDENTIFIER "classy"`, `1 IDENTIFIER "_x"`, `1 IDENTIFIER "a1"`, `1 IDENTIFIER "ANDY"`, `1 EOF ""`},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := scanner.NewScanner(tc.input)

			tokens, err := s.Scan()
			assert.Equal(t, tc.tokens, describeAll(tokens))
			assert.Equal(t, tc.errs, errorStrings(loxerrors.Unjoin(err)))

			// All yields the same steps lazily, errors interleaved in place.
			var (
				lazyTokens []token.Token
				lazyErrs   []error
			)
			for tok, err := range s.All() {
				if err != nil {
					lazyErrs = append(lazyErrs, err)
					continue
				}
				lazyTokens = append(lazyTokens, tok)
			}
			assert.Equal(t, tc.tokens, describeAll(lazyTokens))
			assert.Equal(t, tc.errs, errorStrings(lazyErrs))
		})
	}
}

func describeAll(tokens []token.Token) []string {
	var out []string
	for _, tok := range tokens {
		s := fmt.Sprintf("%d %s %q", tok.Line, tok.Type, tok.Lexeme)
		switch lit := tok.Literal.(type) {
		case string:
			s += fmt.Sprintf(" = %q", lit)
		case float64:
			s += fmt.Sprintf(" = %v", lit)
		}
		out = append(out, s)
	}
	return out
}

func errorStrings(errs []error) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
