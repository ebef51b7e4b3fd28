/*
Package scanner defines an interface for scanners to be used with the parsers
of packages llparse and lrparse.

Two default scanner implementations are provided: (1) a thin wrapper over the
Go std lib 'text/scanner', and (2) an adapter for lexmachine, living in
sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2023 The parsegen authors

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing"

	"github.com/parsegen/parsegen"
)

// tracer traces with key 'parsegen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface. Parsers pull tokens one by one with
// NextToken; Peek returns the upcoming token without consuming it. Line and
// Col report the position of the last token returned by NextToken, for error
// messages.
type Tokenizer interface {
	NextToken() parsegen.Token
	Peek() parsegen.Token
	Line() int
	Col() int
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune          // last token this scanner has produced
	peeked       *DefaultToken // lookahead buffer for Peek
	line, col    int           // position of the last token returned
	Error        func(error)   // error handler
	unifyStrings bool          // convert single chars to strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Pos(), msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() parsegen.Token {
	if t.peeked != nil {
		tok := *t.peeked
		t.peeked = nil
		t.line, t.col = tok.line, tok.col
		return tok
	}
	tok := t.scan()
	t.line, t.col = tok.line, tok.col
	return tok
}

// Peek is part of the Tokenizer interface. It returns the upcoming token
// without consuming it.
func (t *DefaultTokenizer) Peek() parsegen.Token {
	if t.peeked == nil {
		tok := t.scan()
		t.peeked = &tok
	}
	return *t.peeked
}

// Line is part of the Tokenizer interface. It returns the line of the last
// token returned by NextToken.
func (t *DefaultTokenizer) Line() int {
	return t.line
}

// Col is part of the Tokenizer interface. It returns the column of the last
// token returned by NextToken.
func (t *DefaultTokenizer) Col() int {
	return t.col
}

func (t *DefaultTokenizer) scan() DefaultToken {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return DefaultToken{
		kind:   parsegen.TokType(t.lastToken),
		lexeme: t.TokenText(),
		span:   parsegen.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
		line:   t.Position.Line,
		col:    t.Position.Column,
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind      parsegen.TokType
	lexeme    string
	Val       interface{}
	span      parsegen.Span
	line, col int
}

func MakeDefaultToken(typ parsegen.TokType, lexeme string, span parsegen.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() parsegen.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() parsegen.Span {
	return t.span
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenizer.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
// Comments are skipped by default; SkipComments(false) makes the tokenizer
// deliver them as tokens of type Comment.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// Lexeme is a helper function to receive a string from a token.
func Lexeme(token interface{}) string {
	switch t := token.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
