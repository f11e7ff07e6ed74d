// Package lexer implements Noble's hand-written lexical analyzer (§4.1): a
// single left-to-right scan over the source text with one character of
// lookahead, producing a token stream that begins with a synthetic
// token.EntryPoint sentinel and contains no whitespace.
//
// Grounded on kristofer-smog/pkg/lexer/lexer.go's scanner shape
// (position/readPosition/ch fields, readChar/peekChar, a NextToken method
// that switches on the current byte) — the pack's only hand-rolled scanner
// of this kind, since the teacher (its-hmny-nand2tetris) scans all three of
// its languages with the prataprc/goparsec combinator library instead (see
// SPEC_FULL.md's DOMAIN STACK section for why that library isn't reused
// here: §4.1 mandates exactly this hand-written single-pass algorithm).
package lexer

import (
	"fmt"

	"github.com/blaiserettig/Noble/pkg/diag"
	"github.com/blaiserettig/Noble/pkg/token"
)

// Lexer holds the scanning state for one source string.
type Lexer struct {
	input        string
	position     int  // index of ch within input
	readPosition int  // index of the next byte to read
	ch           byte // current byte under examination, 0 at EOF
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAlpha(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch byte) bool { return isAlpha(ch) || isDigit(ch) }

// Lex scans the entire source string and returns its token stream, or a
// *diag.Diagnostic (Kind: diag.LexError) on the first unrecognized or
// malformed construct (§4.1).
func Lex(source string) ([]token.Token, error) {
	l := New(source)
	tokens := []token.Token{token.New(token.EntryPoint)}

	for {
		tok, done, err := l.next()
		if err != nil {
			return nil, err
		}
		if done {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// next scans and returns the next non-whitespace token. done is true once
// the input is exhausted (no token is returned in that case).
func (l *Lexer) next() (tok token.Token, done bool, err error) {
	l.skipWhitespace()

	switch {
	case l.ch == 0:
		return token.Token{}, true, nil

	case isAlpha(l.ch):
		word := l.readWord()
		if kind, isKeyword := token.Keywords[word]; isKeyword {
			if kind == token.BooleanLiteral {
				return token.NewLexeme(token.BooleanLiteral, word), false, nil
			}
			return token.New(kind), false, nil
		}
		return token.NewLexeme(token.Identifier, word), false, nil

	case isDigit(l.ch):
		return l.readNumber()

	case l.ch == '\'':
		return l.readCharLiteral()

	case l.ch == ';':
		l.readChar()
		return token.New(token.Semicolon), false, nil
	case l.ch == '(':
		l.readChar()
		return token.New(token.LeftParen), false, nil
	case l.ch == ')':
		l.readChar()
		return token.New(token.RightParen), false, nil
	case l.ch == '{':
		l.readChar()
		return token.New(token.LeftBrace), false, nil
	case l.ch == '}':
		l.readChar()
		return token.New(token.RightBrace), false, nil
	case l.ch == '+':
		l.readChar()
		return token.New(token.Plus), false, nil
	case l.ch == '-':
		l.readChar()
		return token.New(token.Minus), false, nil
	case l.ch == '*':
		l.readChar()
		return token.New(token.Star), false, nil
	case l.ch == '/':
		l.readChar()
		return token.New(token.Slash), false, nil

	case l.ch == '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.New(token.EqEq), false, nil
		}
		return token.New(token.Equals), false, nil

	case l.ch == '!':
		l.readChar()
		if l.ch != '=' {
			return token.Token{}, false, l.errorf("unexpected character: expected '=' after '!'")
		}
		l.readChar()
		return token.New(token.NotEq), false, nil

	case l.ch == '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.New(token.LtEq), false, nil
		}
		return token.New(token.Lt), false, nil

	case l.ch == '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.New(token.GtEq), false, nil
		}
		return token.New(token.Gt), false, nil

	default:
		return token.Token{}, false, l.errorf("unexpected character %q", l.ch)
	}
}

// readWord accumulates consecutive alphanumeric/underscore characters.
func (l *Lexer) readWord() string {
	start := l.position
	for isAlphaNumeric(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber accumulates digits, and a fractional part when a '.' is
// immediately followed by a digit (§4.1: otherwise the '.' is left
// unconsumed, and the next scan rejects it as an unexpected character).
func (l *Lexer) readNumber() (token.Token, bool, error) {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
		return token.NewLexeme(token.FloatLiteral, l.input[start:l.position]), false, nil
	}

	return token.NewLexeme(token.IntegerLiteral, l.input[start:l.position]), false, nil
}

// readCharLiteral scans 'c' — exactly one content byte between quotes.
func (l *Lexer) readCharLiteral() (token.Token, bool, error) {
	l.readChar() // consume opening '\''
	if l.ch == 0 {
		return token.Token{}, false, l.errorf("unterminated character literal")
	}

	content := l.ch
	l.readChar()

	if l.ch != '\'' {
		return token.Token{}, false, l.errorf("unterminated character literal")
	}
	l.readChar() // consume closing '\''

	return token.NewLexeme(token.CharLiteral, string(content)), false, nil
}

func (l *Lexer) errorf(format string, args ...any) error {
	return diag.New(diag.LexError, "unexpected_character", fmt.Sprintf(format, args...))
}
