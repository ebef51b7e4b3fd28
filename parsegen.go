package parsegen

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. Applications are free to define their
// own token categories; the only values interpreted by this module are EOF and
// Epsilon.
type TokType int

// Token categories with a fixed meaning. EOF mirrors the value used by
// text/scanner; Epsilon is chosen below the range of text/scanner's category
// codes so it can never clash with a real token.
const (
	EOF     TokType = -1
	Epsilon TokType = -9
)

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a floating point number:
//
//    TokType = Float       // identifier for this kind of tokens (application specific)
//    Lexeme  = "3.1416"    // lexeme how it appeared in the input stream
//    Value   = 3.1416      // is a float64 value
//    Span    = 67…73       // occured from position 67 in the input stream
//
// Token.Value() could either have been set by the scanner, or converted from
// Token.Lexeme() by a client of the parser.
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Parse stack states ----------------------------------------------------

// State is an entry on an LR parse stack. It couples a parser state number with
// the token which caused the transition into the state, and an arbitrary
// client-provided payload, usually a fragment of an AST or a semantic value.
type State struct {
	ID    int         // parser state number
	Value interface{} // client payload, e.g., an AST node
	Token Token       // token which has been shifted into this state
}

// ReduceAction is a callback type for clients of an LR parser. Whenever the
// parser reduces by a production, the production's action is called with a view
// of the current parse stack, the states for the production's body still on
// top of it. The action may fill in next.Value; next will become the state
// pushed for the production's left-hand side.
//
// Actions must treat the stack as read-only.
type ReduceAction func(stack []State, next *State)

// RecoveryLimit is the maximum number of error-recovery attempts a parser will
// make during a single parse before giving up.
const RecoveryLimit = 5

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, a parse tree will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
