// Package grammar is the single table of dig keywords, declared-type names
// (vartypes) and operators.
//
// Ids are allocated from three disjoint, contiguous ranges so that the
// category of a bare id can be recovered from its value alone:
//
//	keywords  (keywordBegin, keywordEnd)
//	vartypes  (vartypeBegin, vartypeEnd)
//	operators (operatorBegin, operatorEnd)
package grammar

import "fmt"

// ID identifies a keyword, vartype or operator. The zero ID means "not found".
type ID uint16

// None is returned by lookups that do not match anything.
const None ID = 0

const (
	keywordBegin ID = iota

	Import
	As
	Return
	For
	While
	Break
	Continue
	If
	Else
	Elif
	Class
	Namespace
	Fun
	True
	False
	Null

	keywordEnd
	vartypeBegin

	Int
	Float
	Str
	Bool
	Arr
	Var

	vartypeEnd
	operatorBegin

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Colon     // :
	Question  // ?
	Dot       // .
	Assign    // =

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Caret   // ^
	Not     // !
	Tilde   // ~

	Equals    // ==
	NotEq     // !=
	Less      // <
	Greater   // >
	LessEq    // <=
	GreaterEq // >=

	AndLogical // &&
	OrLogical  // ||
	And        // &
	Pipe       // |
	Shl        // <<
	Shr        // >>

	operatorEnd
)

// Arity is the syntactic class of an operator.
type Arity uint8

const (
	Other  Arity = iota // assignment and punctuation
	Binary              // only between two operands
	Unary               // only before an operand
	Both                // binary or unary depending on context
)

func (a Arity) String() string {
	switch a {
	case Binary:
		return "binary"
	case Unary:
		return "unary"
	case Both:
		return "binary-or-unary"
	default:
		return "other"
	}
}

// Category is the range an id belongs to.
type Category uint8

const (
	NotFound Category = iota
	KeywordCategory
	VartypeCategory
	OperatorCategory
)

type entry struct {
	spelling string
	arity    Arity
}

// table is indexed by ID. Marker ids (range bounds) have an empty spelling.
var table = [...]entry{
	Import:    {"import", Other},
	As:        {"as", Other},
	Return:    {"return", Other},
	For:       {"for", Other},
	While:     {"while", Other},
	Break:     {"break", Other},
	Continue:  {"continue", Other},
	If:        {"if", Other},
	Else:      {"else", Other},
	Elif:      {"elif", Other},
	Class:     {"class", Other},
	Namespace: {"namespace", Other},
	Fun:       {"fun", Other},
	True:      {"true", Other},
	False:     {"false", Other},
	Null:      {"null", Other},

	Int:   {"int", Other},
	Float: {"float", Other},
	Str:   {"str", Other},
	Bool:  {"bool", Other},
	Arr:   {"arr", Other},
	Var:   {"var", Other},

	LParen:    {"(", Other},
	RParen:    {")", Other},
	LBrace:    {"{", Other},
	RBrace:    {"}", Other},
	LBracket:  {"[", Other},
	RBracket:  {"]", Other},
	Semicolon: {";", Other},
	Comma:     {",", Other},
	Colon:     {":", Other},
	Question:  {"?", Other},
	Dot:       {".", Binary},
	Assign:    {"=", Other},

	Plus:    {"+", Both},
	Minus:   {"-", Both},
	Star:    {"*", Binary},
	Slash:   {"/", Binary},
	Percent: {"%", Binary},
	Caret:   {"^", Binary},
	Not:     {"!", Unary},
	Tilde:   {"~", Unary},

	Equals:    {"==", Binary},
	NotEq:     {"!=", Binary},
	Less:      {"<", Binary},
	Greater:   {">", Binary},
	LessEq:    {"<=", Binary},
	GreaterEq: {">=", Binary},

	AndLogical: {"&&", Binary},
	OrLogical:  {"||", Binary},
	And:        {"&", Binary},
	Pipe:       {"|", Binary},
	Shl:        {"<<", Binary},
	Shr:        {">>", Binary},

	operatorEnd: {},
}

// MaxOperatorLen is the longest operator spelling the lexer will try.
const MaxOperatorLen = 3

var (
	words     = make(map[string]ID) // keywords and vartypes
	operators = make(map[string]ID)
	opChars   [256]bool
)

func init() {
	for i, e := range table {
		id := ID(i)
		switch CategoryOf(id) {
		case KeywordCategory, VartypeCategory:
			if e.spelling == "" {
				panic(fmt.Sprintf("grammar: id %d has no spelling", id))
			}
			words[e.spelling] = id
		case OperatorCategory:
			if e.spelling == "" || len(e.spelling) > MaxOperatorLen {
				panic(fmt.Sprintf("grammar: bad operator spelling %q for id %d", e.spelling, id))
			}
			operators[e.spelling] = id
			for j := 0; j < len(e.spelling); j++ {
				opChars[e.spelling[j]] = true
			}
		}
	}
}

// IsKeyword reports whether id is in the keyword range.
func IsKeyword(id ID) bool { return id > keywordBegin && id < keywordEnd }

// IsVartype reports whether id is in the vartype range.
func IsVartype(id ID) bool { return id > vartypeBegin && id < vartypeEnd }

// IsOperator reports whether id is in the operator range.
func IsOperator(id ID) bool { return id > operatorBegin && id < operatorEnd }

// CategoryOf recovers the category of id from its numeric range.
func CategoryOf(id ID) Category {
	switch {
	case IsKeyword(id):
		return KeywordCategory
	case IsVartype(id):
		return VartypeCategory
	case IsOperator(id):
		return OperatorCategory
	}
	return NotFound
}

// Lookup returns the keyword or vartype id spelled s, or None. Operators are
// never returned here; see LookupOperator.
func Lookup(s string) ID {
	return words[s]
}

// LookupOperator returns the operator id spelled s, or None.
func LookupOperator(s string) ID {
	return operators[s]
}

// IsOperatorChar reports whether c appears in any operator spelling.
func IsOperatorChar(c byte) bool {
	return opChars[c]
}

// Spelling returns the canonical source text for id.
func Spelling(id ID) string {
	if CategoryOf(id) == NotFound {
		return fmt.Sprintf("ID(%d)", id)
	}
	return table[id].spelling
}

func (id ID) String() string { return Spelling(id) }

// ArityOf returns the arity class of an operator id; non-operators are Other.
func ArityOf(id ID) Arity {
	if !IsOperator(id) {
		return Other
	}
	return table[id].arity
}

// IsBinary reports whether id may appear between two operands.
func IsBinary(id ID) bool {
	a := ArityOf(id)
	return a == Binary || a == Both
}

// IsUnary reports whether id may appear before a single operand.
func IsUnary(id ID) bool {
	a := ArityOf(id)
	return a == Unary || a == Both
}

// HasIdentity reports whether Identity may be called with id.
func HasIdentity(id ID) bool {
	switch id {
	case Plus, Minus, Star, Slash, Percent, Caret:
		return true
	}
	return false
}

// Identity returns the implicit second operand used to expand x++ style
// shorthand: 1 for + and -, 2 for * / % ^. It panics for any other id.
func Identity(id ID) float64 {
	switch id {
	case Plus, Minus:
		return 1
	case Star, Slash, Percent, Caret:
		return 2
	}
	panic(fmt.Sprintf("grammar: operator %s has no arithmetic identity", Spelling(id)))
}
