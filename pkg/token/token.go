// Package token defines the lexical vocabulary of Noble.
//
// A Token is a tagged value with a Kind drawn from a closed enumeration and an
// optional Lexeme carried only by the kinds that need one (identifiers and
// literals). Tokens are immutable once produced by the lexer.
package token

// Kind enumerates every terminal the lexer can produce.
type Kind int

const (
	// EntryPoint is a synthetic sentinel prepended to every token stream by
	// the lexer; it carries no lexeme and exists only so the parser has a
	// uniform "start of program" token to look at.
	EntryPoint Kind = iota

	Exit
	TypeI32s
	TypeF32s
	TypeBool
	TypeChar

	Identifier
	IntegerLiteral
	FloatLiteral
	BooleanLiteral
	CharLiteral

	Equals
	Semicolon
	LeftParen
	RightParen
	LeftBrace
	RightBrace

	For
	ForIn
	ForTo
	If
	Else

	Plus
	Minus
	Star
	Slash

	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
)

var names = map[Kind]string{
	EntryPoint:     "EntryPoint",
	Exit:           "exit",
	TypeI32s:       "i32s",
	TypeF32s:       "f32s",
	TypeBool:       "bool",
	TypeChar:       "char",
	Identifier:     "identifier",
	IntegerLiteral: "integer literal",
	FloatLiteral:   "float literal",
	BooleanLiteral: "boolean literal",
	CharLiteral:    "char literal",
	Equals:         "=",
	Semicolon:      ";",
	LeftParen:      "(",
	RightParen:     ")",
	LeftBrace:      "{",
	RightBrace:     "}",
	For:            "for",
	ForIn:          "in",
	ForTo:          "to",
	If:             "if",
	Else:           "else",
	Plus:           "+",
	Minus:          "-",
	Star:           "*",
	Slash:          "/",
	EqEq:           "==",
	NotEq:          "!=",
	Lt:             "<",
	LtEq:           "<=",
	Gt:             ">",
	GtEq:           ">=",
}

// String renders a Kind as the source-level spelling a diagnostic would
// quote (e.g. "for", "=="), falling back to "unknown token kind" for values
// outside the enumeration.
func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "unknown token kind"
}

// Keywords maps every reserved word to its Kind. Anything not present here
// that starts with a letter or underscore is an Identifier.
var Keywords = map[string]Kind{
	"exit":  Exit,
	"i32s":  TypeI32s,
	"f32s":  TypeF32s,
	"bool":  TypeBool,
	"char":  TypeChar,
	"for":   For,
	"in":    ForIn,
	"to":    ForTo,
	"if":    If,
	"else":  Else,
	"true":  BooleanLiteral,
	"false": BooleanLiteral,
}

// Token is a single lexical unit: a Kind plus, for value-bearing kinds, the
// exact source text (Lexeme) that produced it.
type Token struct {
	Kind   Kind
	Lexeme string
}

// New builds a terminal token that carries no lexeme (punctuation, keywords
// other than the boolean literals, and the EntryPoint sentinel).
func New(kind Kind) Token { return Token{Kind: kind} }

// NewLexeme builds a value-bearing token (identifiers and literals).
func NewLexeme(kind Kind, lexeme string) Token { return Token{Kind: kind, Lexeme: lexeme} }

// String renders a Token for error messages and debug printing.
func (t Token) String() string {
	if t.Lexeme == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + " '" + t.Lexeme + "'"
}
