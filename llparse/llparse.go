/*
Package llparse implements a table-driven predictive LL parser.

The parser operates a stack of production-body elements: grammar symbols and
client records. Terminals on top of the stack are matched against the input,
non-terminals are expanded using an LL prediction table, and records trigger
client callbacks, which may in turn push synthesized records. Syntax errors
start panic-mode recovery; the number of recoveries per parse is bounded.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2023 The parsegen authors

*/
package llparse

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/parsegen/parsegen"
	"github.com/parsegen/parsegen/grammar"
	"github.com/parsegen/parsegen/scanner"
	"github.com/parsegen/parsegen/table"
)

// tracer traces with key 'parsegen.llparse'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.llparse")
}

// ErrTooManyErrors is returned when a parse exhausts its error-recovery
// budget (parsegen.RecoveryLimit recoveries per parse).
var ErrTooManyErrors = errors.New("too many syntax errors, giving up")

// Parser is a predictive LL parser, driven by a prediction table.
// Create one with NewParser. A Parser may be reused for multiple inputs, but
// is not safe for concurrent use.
type Parser struct {
	g      *grammar.Grammar
	table  *table.LLTable
	scan   scanner.Tokenizer
	stack  []grammar.Element
	tok    parsegen.Token
	errcnt int
	errs   []error
}

// NewParser creates an LL parser for a grammar and a matching prediction
// table (see table.BuildLLTable).
func NewParser(g *grammar.Grammar, tbl *table.LLTable) (*Parser, error) {
	if g == nil || tbl == nil {
		return nil, fmt.Errorf("cannot create LL parser without grammar and table")
	}
	return &Parser{g: g, table: tbl}, nil
}

// Parse reads tokens from scan and parses them according to the parser's
// grammar. Recoverable syntax errors do not stop the parse; they are counted
// and reported collectively after the input has been processed. Parse returns
// nil only for error-free input.
func (p *Parser) Parse(scan scanner.Tokenizer) error {
	if scan == nil {
		return fmt.Errorf("cannot parse without a scanner")
	}
	p.scan = scan
	p.stack = p.stack[:0]
	p.errcnt = 0
	p.errs = p.errs[:0]
	p.stack = append(p.stack, grammar.Elem(p.g.Start()))
	p.tok = scan.NextToken()
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		tracer().Debugf("popped %v, lookahead is %q", top, p.tok.Lexeme())
		if !top.IsSymbol() {
			rec := top.Record()
			if rec.Action != nil {
				rec.Action(&p.stack, rec.Payload)
			}
			continue
		}
		if err := p.parseSymbol(top); err != nil {
			p.stack = nil
			return err
		}
	}
	if p.tok.TokType() != parsegen.EOF {
		p.report(fmt.Errorf("trailing input %q after end of parse", p.tok.Lexeme()))
	}
	if p.errcnt > 0 {
		return fmt.Errorf("input not accepted, %d syntax errors: %w", p.errcnt, p.errs[0])
	}
	return nil
}

func (p *Parser) parseSymbol(top grammar.Element) error {
	sym := top.Symbol()
	if sym.IsTerminal() {
		if sym.IsEpsilon() { // ε matches nothing
			return nil
		}
		if sym.Matches(p.tok) {
			tracer().Debugf("matched %q", p.tok.Lexeme())
			p.tok = p.scan.NextToken()
			return nil
		}
		return p.recoverTerminal(sym)
	}
	entry := p.table.At(sym.Code(), p.tok.TokType())
	if entry.IsError() {
		return p.recoverNonTerminal(top)
	}
	p.predict(entry.Production())
	return nil
}

// predict replaces an expanded non-terminal by the body of a production,
// pushed in reverse so that the leftmost element ends up on top.
func (p *Parser) predict(no int) {
	prod := p.g.Rule(no)
	tracer().Debugf("expanding by production %d: %s", no, prod)
	rhs := prod.RHS()
	for i := len(rhs) - 1; i >= 0; i-- {
		p.stack = append(p.stack, rhs[i])
	}
}

func (p *Parser) report(err error) {
	p.errcnt++
	p.errs = append(p.errs, err)
	tracer().Errorf(err.Error())
}

// recoverTerminal handles a mismatch between a terminal on top of the stack
// and the lookahead token. The offending token is skipped; the terminal has
// already been popped, so parsing continues with the next stack element.
func (p *Parser) recoverTerminal(sym grammar.Symbol) error {
	p.report(fmt.Errorf("expected %s, got %q (line %d, col %d)",
		sym, p.tok.Lexeme(), p.scan.Line(), p.scan.Col()))
	if p.errcnt > parsegen.RecoveryLimit {
		return ErrTooManyErrors
	}
	p.tok = p.scan.NextToken()
	return nil
}

// recoverNonTerminal is panic-mode recovery for a non-terminal without a
// prediction for the lookahead token. In order:
//
//   1. If the non-terminal has an epsilon alternative, expand it: the
//      non-terminal may simply vanish.
//   2. A recovery callback attached to the error cell may re-synchronize
//      the parse by manipulating the stack; on success the offending token
//      is consumed.
//   3. Otherwise input tokens are skipped until one of them has a
//      prediction for the non-terminal.
//
// If end of input is reached without synchronizing, the non-terminal is
// dropped and parsing continues with the remaining stack.
func (p *Parser) recoverNonTerminal(top grammar.Element) error {
	sym := top.Symbol()
	nt := sym.Code()
	p.report(fmt.Errorf("unexpected %q while expanding %s (line %d, col %d)",
		p.tok.Lexeme(), sym, p.scan.Line(), p.scan.Col()))
	if p.errcnt > parsegen.RecoveryLimit {
		return ErrTooManyErrors
	}
	if e := p.table.At(nt, parsegen.Epsilon); !e.IsError() {
		tracer().Debugf("sync: %s has an epsilon alternative", sym)
		p.predict(e.Production())
		return nil
	}
	for {
		e := p.table.At(nt, p.tok.TokType())
		if !e.IsError() {
			tracer().Debugf("sync: %s again has a prediction on %q", sym, p.tok.Lexeme())
			p.predict(e.Production())
			return nil
		}
		if resume := e.Recovery(); resume != nil && resume(&p.stack, top, p.tok) {
			tracer().Debugf("sync: recovery callback for %s took over", sym)
			p.tok = p.scan.NextToken()
			return nil
		}
		if p.tok.TokType() == parsegen.EOF {
			tracer().Debugf("sync: end of input, dropping %s", sym)
			return nil
		}
		tracer().Debugf("sync: skipping %q", p.tok.Lexeme())
		p.tok = p.scan.NextToken()
	}
}
