package grammar

import (
	"errors"
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/parsegen/parsegen"
)

// --- Productions -----------------------------------------------------------

// Production is a grammar production LHS ::= body. The body is a sequence of
// elements: grammar symbols, possibly interspersed with action records for
// LL parsing. An epsilon production carries the single symbol ε as its body.
//
// Productions may have a reduce action attached, to be called by an LR parser
// whenever it reduces by this production.
type Production struct {
	LHS      Symbol // left-hand side, always a non-terminal
	rhs      []Element
	symcount int // number of grammar symbols in rhs, not counting ε
	Serial   int // order number of this production within its grammar
	OnReduce parsegen.ReduceAction
}

func newProduction(lhs Symbol, rhs []Element, serial int) *Production {
	p := &Production{LHS: lhs, rhs: rhs, Serial: serial}
	for _, e := range rhs {
		if e.IsSymbol() && !e.Symbol().IsEpsilon() {
			p.symcount++
		}
	}
	return p
}

// RHS returns a copy of the production's body.
func (p *Production) RHS() []Element {
	dup := make([]Element, len(p.rhs))
	copy(dup, p.rhs)
	return dup
}

// Symbols returns the grammar symbols of the production's body, in order,
// with record elements filtered out.
func (p *Production) Symbols() []Symbol {
	syms := make([]Symbol, 0, p.symcount+1)
	for _, e := range p.rhs {
		if e.IsSymbol() {
			syms = append(syms, e.Symbol())
		}
	}
	return syms
}

// Size returns the number of grammar symbols in the production's body.
// ε does not count, i.e. an epsilon production has size 0.
func (p *Production) Size() int {
	return p.symcount
}

// IsEpsilon returns true for epsilon productions.
func (p *Production) IsEpsilon() bool {
	return p.symcount == 0
}

// Contains returns true if sym occurs in the production's body.
func (p *Production) Contains(sym Symbol) bool {
	for _, e := range p.rhs {
		if e.IsSymbol() && e.Symbol().Equals(sym) {
			return true
		}
	}
	return false
}

func (p *Production) String() string {
	s := p.LHS.String() + " ::="
	for _, e := range p.rhs {
		s += " " + e.String()
	}
	return s
}

// --- Grammars --------------------------------------------------------------

// Grammar is a context-free grammar: a list of productions, where the LHS of
// the first production is the start symbol. Grammars are created with a
// GrammarBuilder and are immutable afterwards, except for the FIRST and
// FOLLOW sets, which are computed on demand by CalcFirst and CalcFollow.
type Grammar struct {
	Name       string
	rules      []*Production
	nonterms   []Symbol                    // non-terminals, indexed by code
	terminals  map[parsegen.TokType]Symbol // terminals, keyed by token type
	firstSets  []*treeset.Set              // FIRST for non-terminals, indexed by code
	followSets []*treeset.Set              // FOLLOW for non-terminals, indexed by code
}

// Errors returned by accessors of analysis results.
var (
	// ErrNotComputed flags access to a FIRST or FOLLOW set before the
	// corresponding analysis has run.
	ErrNotComputed = errors.New("set has not been computed yet")
	// ErrNoSuchSymbol flags access with a symbol unknown to the grammar.
	ErrNoSuchSymbol = errors.New("symbol is not known to this grammar")
)

// Size returns the number of productions of the grammar.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns production number no.
func (g *Grammar) Rule(no int) *Production {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Start returns the start symbol, i.e. the LHS of production 0.
func (g *Grammar) Start() Symbol {
	return g.rules[0].LHS
}

// NonTermCount returns the number of non-terminals in the grammar.
// Non-terminal codes are dense within [0, NonTermCount).
func (g *Grammar) NonTermCount() int {
	return len(g.nonterms)
}

// NonTermByCode returns the non-terminal with a given code.
func (g *Grammar) NonTermByCode(code int) (Symbol, bool) {
	if code < 0 || code >= len(g.nonterms) {
		return Symbol{}, false
	}
	return g.nonterms[code], true
}

// Alternatives returns all productions with a given non-terminal as LHS.
func (g *Grammar) Alternatives(nt Symbol) []*Production {
	var alts []*Production
	for _, p := range g.rules {
		if p.LHS.Equals(nt) {
			alts = append(alts, p)
		}
	}
	return alts
}

// EachProduction iterates over all productions, in serial order.
func (g *Grammar) EachProduction(proc func(no int, p *Production)) {
	for i, p := range g.rules {
		proc(i, p)
	}
}

// EachNonTerminal iterates over all non-terminals, in code order.
func (g *Grammar) EachNonTerminal(proc func(nt Symbol)) {
	for _, nt := range g.nonterms {
		proc(nt)
	}
}

// EachTerminal iterates over all terminals of the grammar, in token-type
// order. Iteration order must not depend on map ordering: clients like the
// canonical item-set collection derive state numbers from it, and repeated
// builds of a grammar have to produce identical tables.
func (g *Grammar) EachTerminal(proc func(t Symbol)) {
	syms := make([]Symbol, 0, len(g.terminals))
	for _, t := range g.terminals {
		syms = append(syms, t)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].code < syms[j].code })
	for _, t := range syms {
		proc(t)
	}
}

// EachSymbol iterates over all symbols of the grammar, terminals first.
func (g *Grammar) EachSymbol(proc func(sym Symbol)) {
	g.EachTerminal(proc)
	g.EachNonTerminal(proc)
}

// First returns the FIRST set of a symbol. For terminals this is always the
// singleton set containing the terminal itself; for non-terminals
// CalcFirst must have run, otherwise ErrNotComputed is returned.
func (g *Grammar) First(sym Symbol) (*treeset.Set, error) {
	if sym.IsTerminal() {
		set := newSymbolSet()
		set.Add(sym)
		return set, nil
	}
	if g.firstSets == nil {
		return nil, fmt.Errorf("FIRST(%s): %w", sym, ErrNotComputed)
	}
	if sym.Code() >= len(g.firstSets) {
		return nil, fmt.Errorf("FIRST(%s): %w", sym, ErrNoSuchSymbol)
	}
	return g.firstSets[sym.Code()], nil
}

// Follow returns the FOLLOW set of a non-terminal. CalcFollow must have run,
// otherwise ErrNotComputed is returned.
func (g *Grammar) Follow(sym Symbol) (*treeset.Set, error) {
	if sym.IsTerminal() {
		return nil, fmt.Errorf("FOLLOW(%s): terminals have no FOLLOW set", sym)
	}
	if g.followSets == nil {
		return nil, fmt.Errorf("FOLLOW(%s): %w", sym, ErrNotComputed)
	}
	if sym.Code() >= len(g.followSets) {
		return nil, fmt.Errorf("FOLLOW(%s): %w", sym, ErrNoSuchSymbol)
	}
	return g.followSets[sym.Code()], nil
}

// Dump dumps the grammar and its analysis results (if present) to the tracer,
// at debug level.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------", g.Name)
	for i, p := range g.rules {
		tracer().Debugf("%3d: %s", i, p)
	}
	for code, nt := range g.nonterms {
		if g.firstSets != nil {
			tracer().Debugf("FIRST(%s) = %s", nt, symSetString(g.firstSets[code]))
		}
		if g.followSets != nil {
			tracer().Debugf("FOLLOW(%s) = %s", nt, symSetString(g.followSets[code]))
		}
	}
	tracer().Debugf("-------------------------")
}
