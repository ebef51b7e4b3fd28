/*
Package grammar implements a model for context-free grammars, together with
a fluent builder API and FIRST/FOLLOW set analysis.

Grammars consist of productions over grammar symbols, i.e. terminals and
non-terminals. Production bodies may additionally carry record elements,
which do not consume input but trigger client callbacks when an LL parser
pops them off its parse stack.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2023 The parsegen authors

*/
package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/schuko/tracing"

	"github.com/parsegen/parsegen"
)

// tracer traces with key 'parsegen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.grammar")
}

// --- Symbols ---------------------------------------------------------------

// Symbol is a grammar symbol, i.e. a terminal or a non-terminal.
// Symbols are small value types and are intended to be copied freely.
// Terminals are identified by their token type, non-terminals by a numeric
// code assigned by the grammar builder. Identity never depends on the name,
// which is for display only.
type Symbol struct {
	Name     string
	terminal bool
	code     int
}

// Terminal creates a terminal symbol for a token type.
func Terminal(name string, tokty parsegen.TokType) Symbol {
	return Symbol{Name: name, terminal: true, code: int(tokty)}
}

// NonTerminal creates a non-terminal symbol with a numeric code.
// Clients will usually not call this, but rather have a GrammarBuilder
// assign codes.
func NonTerminal(name string, code int) Symbol {
	return Symbol{Name: name, code: code}
}

// Pre-defined symbols for the empty word and for end-of-input.
var (
	Epsilon = Terminal("ε", parsegen.Epsilon)
	EOF     = Terminal("#eof", parsegen.EOF)
)

// IsTerminal returns true if this symbol represents a terminal.
func (sym Symbol) IsTerminal() bool {
	return sym.terminal
}

// IsEpsilon returns true if this symbol is the empty word.
func (sym Symbol) IsEpsilon() bool {
	return sym.terminal && parsegen.TokType(sym.code) == parsegen.Epsilon
}

// IsEOF returns true if this symbol represents end-of-input.
func (sym Symbol) IsEOF() bool {
	return sym.terminal && parsegen.TokType(sym.code) == parsegen.EOF
}

// TokenType returns the token type of a terminal.
// Calling it on a non-terminal is a programming error and will panic.
func (sym Symbol) TokenType() parsegen.TokType {
	if !sym.terminal {
		panic(fmt.Sprintf("attempt to get token type of non-terminal %s", sym.Name))
	}
	return parsegen.TokType(sym.code)
}

// Code returns the numeric code of a non-terminal.
// Calling it on a terminal is a programming error and will panic.
func (sym Symbol) Code() int {
	if sym.terminal {
		panic(fmt.Sprintf("attempt to get non-terminal code of terminal %s", sym.Name))
	}
	return sym.code
}

// Equals compares two symbols. Names do not participate in identity.
func (sym Symbol) Equals(other Symbol) bool {
	return sym.terminal == other.terminal && sym.code == other.code
}

// Matches returns true if this symbol is a terminal matching the category of
// a given token.
func (sym Symbol) Matches(tok parsegen.Token) bool {
	return sym.terminal && parsegen.TokType(sym.code) == tok.TokType()
}

func (sym Symbol) String() string {
	if sym.Name != "" {
		return sym.Name
	}
	if sym.terminal {
		return fmt.Sprintf("T(%d)", sym.code)
	}
	return fmt.Sprintf("N%d", sym.code)
}

// SymbolComparator is a comparator for gods containers holding symbols.
// Terminals sort before non-terminals, identical kinds sort by code.
func SymbolComparator(a, b interface{}) int {
	s1, s2 := a.(Symbol), b.(Symbol)
	if s1.terminal != s2.terminal {
		if s1.terminal {
			return -1
		}
		return 1
	}
	return s1.code - s2.code
}

// newSymbolSet creates an empty ordered set of symbols.
func newSymbolSet() *treeset.Set {
	return treeset.NewWith(SymbolComparator)
}

// addSym inserts a symbol into a set, reporting whether the set has grown.
func addSym(set *treeset.Set, sym Symbol) bool {
	if set.Contains(sym) {
		return false
	}
	set.Add(sym)
	return true
}

// symSetString pretty-prints a symbol set, mainly for tracing.
func symSetString(set *treeset.Set) string {
	if set == nil {
		return "{}"
	}
	s := "{"
	for i, v := range set.Values() {
		if i > 0 {
			s += " "
		}
		s += v.(Symbol).String()
	}
	return s + "}"
}

// --- Production elements ---------------------------------------------------

// ElemKind discriminates the kinds of elements a production body may contain.
type ElemKind int8

// Kinds of production-body elements.
const (
	SymbolKind ElemKind = iota // a grammar symbol
	SynthKind                  // a synthesized record, pushed by a client callback
	ActionKind                 // an action record, part of a production body
)

func (k ElemKind) String() string {
	switch k {
	case SymbolKind:
		return "symbol"
	case SynthKind:
		return "synthesized"
	case ActionKind:
		return "action"
	}
	return "?"
}

// RecordAction is a callback type for clients of an LL parser. It receives the
// current parse stack and the payload of the record which triggered it. The
// action may modify the stack, e.g. push synthesized records.
type RecordAction func(stack *[]Element, payload interface{})

// Record is the content of a non-symbol stack element: a client payload plus
// a callback to run when the element is popped off an LL parse stack.
type Record struct {
	Payload interface{}
	Action  RecordAction
}

// Element is an entry of a production body and of an LL parse stack. It is
// either a grammar symbol or a record; the accessors for the inactive variant
// panic, so mixing them up surfaces as a programming error immediately.
type Element struct {
	kind ElemKind
	sym  Symbol
	rec  Record
}

// Elem wraps a grammar symbol as a production-body element.
func Elem(sym Symbol) Element {
	return Element{kind: SymbolKind, sym: sym}
}

// Synthesized creates a synthesized-record element. Synthesized records never
// occur in production bodies; clients push them onto LL parse stacks from
// within record actions.
func Synthesized(payload interface{}, action RecordAction) Element {
	return Element{kind: SynthKind, rec: Record{Payload: payload, Action: action}}
}

// Action creates an action-record element for use in a production body.
func Action(payload interface{}, action RecordAction) Element {
	return Element{kind: ActionKind, rec: Record{Payload: payload, Action: action}}
}

// Kind returns the kind of this element.
func (e Element) Kind() ElemKind {
	return e.kind
}

// IsSymbol returns true if this element wraps a grammar symbol.
func (e Element) IsSymbol() bool {
	return e.kind == SymbolKind
}

// Symbol returns the grammar symbol of a symbol element, panicking for
// record elements.
func (e Element) Symbol() Symbol {
	if e.kind != SymbolKind {
		panic(fmt.Sprintf("attempt to get symbol of %s element", e.kind))
	}
	return e.sym
}

// Record returns the record of a non-symbol element, panicking for symbol
// elements.
func (e Element) Record() Record {
	if e.kind == SymbolKind {
		panic("attempt to get record of symbol element")
	}
	return e.rec
}

func (e Element) String() string {
	switch e.kind {
	case SymbolKind:
		return e.sym.String()
	case SynthKind:
		return fmt.Sprintf("synth(%v)", e.rec.Payload)
	}
	return fmt.Sprintf("action(%v)", e.rec.Payload)
}
