package table

import (
	"github.com/parsegen/parsegen"
	"github.com/parsegen/parsegen/grammar"
	"github.com/parsegen/parsegen/items"
)

// tokenRange returns the smallest and largest token type a grammar's
// terminals use, end-of-input included.
func tokenRange(g *grammar.Grammar) (parsegen.TokType, parsegen.TokType) {
	min, max := parsegen.EOF, parsegen.EOF
	g.EachTerminal(func(t grammar.Symbol) {
		if t.IsEpsilon() {
			return
		}
		if tt := t.TokenType(); tt < min {
			min = tt
		} else if tt > max {
			max = tt
		}
	})
	return min, max
}

// BuildLLTable constructs an LL(1) prediction table for a grammar, using the
// grammar's FIRST and FOLLOW sets (both are computed if not yet present).
//
// For every production A ::= α, the production is entered for all terminals
// in FIRST(α); if α is nullable, additionally for all terminals in FOLLOW(A)
// and for the ε column, which parsers use during error recovery to locate an
// epsilon alternative. Grammars which are not LL(1) yield table conflicts,
// reported in the table's Conflicts field; the last production entered wins.
func BuildLLTable(g *grammar.Grammar) (*LLTable, error) {
	g.CalcFirst()
	if err := g.CalcFollow(); err != nil {
		return nil, err
	}
	min, max := tokenRange(g)
	if parsegen.Epsilon < min {
		min = parsegen.Epsilon
	}
	t := NewLLTable(g.NonTermCount(), min, max)
	var buildErr error
	g.EachProduction(func(no int, p *grammar.Production) {
		if buildErr != nil {
			return
		}
		first, err := g.FirstOfString(grammar.SymbolString(p.Symbols()))
		if err != nil {
			buildErr = err
			return
		}
		nt := p.LHS.Code()
		nullable := false
		for _, v := range first.Values() {
			sym := v.(grammar.Symbol)
			if sym.IsEpsilon() {
				nullable = true
				continue
			}
			t.Set(nt, sym.TokenType(), no)
		}
		if nullable {
			t.Set(nt, parsegen.Epsilon, no)
			follow, err := g.Follow(p.LHS)
			if err != nil {
				buildErr = err
				return
			}
			for _, v := range follow.Values() {
				t.Set(nt, v.(grammar.Symbol).TokenType(), no)
			}
		}
	})
	if buildErr != nil {
		return nil, buildErr
	}
	tracer().Infof("LL table for %s has %d conflicts", g.Name, t.Conflicts)
	return t, nil
}

// BuildSLRTable constructs SLR(1) ACTION- and GOTO-tables for a grammar from
// its LR(0) item-set collection and FOLLOW sets.
//
// Completed items enter REDUCE entries for all terminals in FOLLOW of their
// LHS; a completed item of production 0 enters ACCEPT for end-of-input.
// Grammars which are not SLR(1) yield table conflicts, reported in the
// table's Conflicts field; the last action entered wins.
func BuildSLRTable(g *grammar.Grammar) (*LRTable, error) {
	g.CalcFirst()
	if err := g.CalcFollow(); err != nil {
		return nil, err
	}
	coll, err := items.Canonical(g)
	if err != nil {
		return nil, err
	}
	min, max := tokenRange(g)
	t := NewLRTable(coll.Size(), g.NonTermCount(), min, max)
	coll.EachEdge(func(from int, sym grammar.Symbol, to int) {
		if sym.IsTerminal() {
			t.SetShift(from, sym.TokenType(), to)
		} else {
			t.SetGoto(from, sym.Code(), to)
		}
	})
	for state := 0; state < coll.Size(); state++ {
		for _, item := range coll.State(state).Items() {
			if !item.IsComplete() {
				continue
			}
			p := item.Rule
			follow, err := g.Follow(p.LHS)
			if err != nil {
				return nil, err
			}
			for _, v := range follow.Values() {
				sym := v.(grammar.Symbol)
				if p.Serial == 0 && sym.IsEOF() {
					t.SetAccept(state, parsegen.EOF)
					continue
				}
				t.SetReduce(state, sym.TokenType(), p.Serial)
			}
		}
	}
	tracer().Infof("SLR table for %s has %d states and %d conflicts",
		g.Name, t.States(), t.Conflicts)
	return t, nil
}
