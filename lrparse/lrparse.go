/*
Package lrparse implements a table-driven shift-reduce LR parser.

The parser operates a stack of states, each coupling a parser state number
with the token shifted into it and a client payload. ACTION- and GOTO-tables
(see package table) drive the automaton; reductions run client callbacks
which may compute payloads, e.g. AST nodes, bottom-up. Syntax errors start
panic-mode recovery; the number of recoveries per parse is bounded.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2023 The parsegen authors

*/
package lrparse

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/parsegen/parsegen"
	"github.com/parsegen/parsegen/grammar"
	"github.com/parsegen/parsegen/scanner"
	"github.com/parsegen/parsegen/table"
)

// tracer traces with key 'parsegen.lrparse'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.lrparse")
}

// Errors returned for irrecoverable parses.
var (
	// ErrTooManyErrors is returned when a parse exhausts its error-recovery
	// budget (parsegen.RecoveryLimit recoveries per parse).
	ErrTooManyErrors = errors.New("too many syntax errors, giving up")
	// ErrNoSync is returned when panic-mode recovery cannot find a state and
	// token to re-synchronize on.
	ErrNoSync = errors.New("unable to re-synchronize after syntax error")
)

// Parser is a table-driven shift-reduce parser. Create one with NewParser.
// A Parser may be reused for multiple inputs, but is not safe for concurrent
// use.
type Parser struct {
	g      *grammar.Grammar
	tbl    *table.LRTable
	scan   scanner.Tokenizer
	stack  []parsegen.State
	tok    parsegen.Token
	errcnt int
	errs   []error
}

// NewParser creates an LR parser for a grammar and matching ACTION- and
// GOTO-tables (see table.BuildSLRTable). The grammar's FOLLOW sets are
// needed for error recovery and computed up front.
func NewParser(g *grammar.Grammar, tbl *table.LRTable) (*Parser, error) {
	if g == nil || tbl == nil {
		return nil, fmt.Errorf("cannot create LR parser without grammar and table")
	}
	g.CalcFirst()
	if err := g.CalcFollow(); err != nil {
		return nil, err
	}
	return &Parser{g: g, tbl: tbl}, nil
}

// Parse reads tokens from scan and parses them according to the parser's
// tables, starting in state 0. It returns the payload computed for the start
// production, usually the root of an AST.
//
// Recoverable syntax errors do not stop the parse; they are counted and
// reported collectively after the input has been processed. The returned
// error is nil only for error-free input.
func (p *Parser) Parse(scan scanner.Tokenizer) (interface{}, error) {
	if scan == nil {
		return nil, fmt.Errorf("cannot parse without a scanner")
	}
	p.scan = scan
	p.stack = append(p.stack[:0], parsegen.State{ID: 0})
	p.errcnt = 0
	p.errs = p.errs[:0]
	p.tok = scan.NextToken()
	for {
		top := p.stack[len(p.stack)-1]
		entry := p.tbl.Action(top.ID, p.tok.TokType())
		tracer().Debugf("state %d, lookahead %q: %s", top.ID, p.tok.Lexeme(), entry)
		if entry.IsError() {
			if err := p.recover(); err != nil {
				p.stack = nil
				return nil, err
			}
			continue
		}
		switch entry.Kind() {
		case table.Shift:
			p.stack = append(p.stack, parsegen.State{ID: entry.Number(), Token: p.tok})
			p.tok = p.scan.NextToken()
		case table.Reduce:
			if err := p.reduce(entry.Number()); err != nil {
				p.stack = nil
				return nil, err
			}
		case table.Accept:
			return p.accept()
		default:
			p.stack = nil
			return nil, fmt.Errorf("logic error: %s entry in ACTION table", entry.Kind())
		}
	}
}

// reduce reduces by production no: the production's action runs with the
// body's states still on the stack, then the states are popped and the GOTO
// entry for the production's LHS determines the state pushed in their place.
func (p *Parser) reduce(no int) error {
	prod := p.g.Rule(no)
	tracer().Debugf("reduce %d: %s", no, prod)
	next := parsegen.State{}
	if prod.OnReduce != nil {
		prod.OnReduce(p.stack, &next)
	}
	n := prod.Size()
	if n > len(p.stack)-1 {
		return fmt.Errorf("logic error: reduction of %s underflows the parse stack", prod)
	}
	p.stack = p.stack[:len(p.stack)-n]
	top := p.stack[len(p.stack)-1]
	entry := p.tbl.Goto(top.ID, prod.LHS.Code())
	if entry.IsError() || entry.Kind() != table.Goto {
		return fmt.Errorf("logic error: no GOTO entry for %s in state %d", prod.LHS, top.ID)
	}
	next.ID = entry.Number()
	p.stack = append(p.stack, next)
	return nil
}

// accept finishes the parse. The start production's action, if any, computes
// the final payload from the remaining stack; without one the payload of the
// topmost state is returned.
func (p *Parser) accept() (interface{}, error) {
	prod := p.g.Rule(0)
	next := parsegen.State{}
	if prod.OnReduce != nil {
		prod.OnReduce(p.stack, &next)
	} else if len(p.stack) > 0 {
		next.Value = p.stack[len(p.stack)-1].Value
	}
	p.stack = nil
	if p.errcnt > 0 {
		return next.Value, fmt.Errorf("input not accepted, %d syntax errors: %w", p.errcnt, p.errs[0])
	}
	return next.Value, nil
}

func (p *Parser) report(err error) {
	p.errcnt++
	p.errs = append(p.errs, err)
	tracer().Errorf(err.Error())
}

// recover is panic-mode error recovery: pop states until one has GOTO
// entries, then scan forward to a token in the FOLLOW set of one of the GOTO
// non-terminals. The GOTO state for that non-terminal is pushed, faking a
// completed parse of it, and parsing resumes with the found token.
//
// End of input is tracked with a flag which is checked before fetching the
// next token, so that the EOF token itself still participates in the FOLLOW
// test, but recovery terminates instead of spinning on a drained scanner.
func (p *Parser) recover() error {
	p.report(fmt.Errorf("unexpected %q in state %d (line %d, col %d)",
		p.tok.Lexeme(), p.stack[len(p.stack)-1].ID, p.scan.Line(), p.scan.Col()))
	if p.errcnt > parsegen.RecoveryLimit {
		return ErrTooManyErrors
	}
	var nts []int
	for len(p.stack) > 0 {
		nts = p.tbl.Gotos(p.stack[len(p.stack)-1].ID)
		if len(nts) > 0 {
			break
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
	if len(nts) == 0 {
		return ErrNoSync
	}
	top := p.stack[len(p.stack)-1]
	atEnd := false
	for {
		if atEnd {
			return ErrNoSync
		}
		if p.tok.TokType() == parsegen.EOF {
			atEnd = true
		}
		probe := grammar.Terminal(p.tok.Lexeme(), p.tok.TokType())
		for _, nt := range nts {
			sym, ok := p.g.NonTermByCode(nt)
			if !ok {
				continue
			}
			follow, err := p.g.Follow(sym)
			if err != nil {
				return err
			}
			if follow.Contains(probe) {
				entry := p.tbl.Goto(top.ID, nt)
				p.stack = append(p.stack, parsegen.State{ID: entry.Number()})
				tracer().Debugf("synced on %s before %q", sym, p.tok.Lexeme())
				return nil
			}
		}
		p.tok = p.scan.NextToken()
	}
}
