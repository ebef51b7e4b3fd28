package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
)

// === FIRST and FOLLOW sets =================================================
//
// Both analyses are classic fixpoint iterations: apply the set equations to
// every production over and over, until a full round no longer grows any set.
// Termination is guaranteed as sets only ever grow and are bounded by the
// grammar's alphabet.

// CalcFirst computes the FIRST sets for all non-terminals of the grammar.
// Calling it more than once is cheap, subsequent calls are no-ops.
func (g *Grammar) CalcFirst() {
	if g.firstSets != nil {
		return
	}
	g.firstSets = make([]*treeset.Set, len(g.nonterms))
	for i := range g.firstSets {
		g.firstSets[i] = newSymbolSet()
	}
	for changed := true; changed; {
		changed = false
		for _, p := range g.rules {
			if g.firstOfProduction(p) {
				changed = true
			}
		}
	}
	tracer().Debugf("FIRST sets of %s computed", g.Name)
}

// firstOfProduction applies the FIRST set equations to a single production,
// folding new symbols into FIRST(LHS). Returns true if the set has grown.
func (g *Grammar) firstOfProduction(p *Production) bool {
	changed := false
	head := g.firstSets[p.LHS.Code()]
	syms := p.Symbols()
	for i, sym := range syms {
		last := i == len(syms)-1
		if sym.IsTerminal() {
			// covers ε as well: an epsilon production puts ε into FIRST(LHS)
			if addSym(head, sym) {
				changed = true
			}
			break
		}
		if sym.Equals(p.LHS) {
			// left recursion: FIRST(LHS) will not grow from this production
			// unless LHS is nullable and the walk may move past it
			if !head.Contains(Epsilon) {
				break
			}
			continue
		}
		sub := g.firstSets[sym.Code()]
		nullable := sub.Contains(Epsilon)
		for _, v := range sub.Values() {
			s := v.(Symbol)
			if s.IsEpsilon() {
				continue
			}
			if addSym(head, s) {
				changed = true
			}
		}
		if !nullable {
			break
		}
		if last {
			// all body symbols are nullable
			if addSym(head, Epsilon) {
				changed = true
			}
		}
	}
	return changed
}

// CalcFollow computes the FOLLOW sets for all non-terminals of the grammar.
// It requires the FIRST sets, i.e. CalcFirst must have run before; otherwise
// an error wrapping ErrNotComputed is returned. Subsequent calls are no-ops.
func (g *Grammar) CalcFollow() error {
	if g.followSets != nil {
		return nil
	}
	if g.firstSets == nil {
		return fmt.Errorf("FOLLOW sets of %s require FIRST sets: %w", g.Name, ErrNotComputed)
	}
	g.followSets = make([]*treeset.Set, len(g.nonterms))
	for i := range g.followSets {
		g.followSets[i] = newSymbolSet()
	}
	g.followSets[g.Start().Code()].Add(EOF)
	for changed := true; changed; {
		changed = false
		for _, p := range g.rules {
			syms := p.Symbols()
			for i, sym := range syms {
				if sym.IsTerminal() {
					continue
				}
				if g.followAt(p, syms, i) {
					changed = true
				}
			}
		}
	}
	tracer().Debugf("FOLLOW sets of %s computed", g.Name)
	return nil
}

// followAt applies the FOLLOW set equations to the non-terminal at position i
// of a production's body. Returns true if FOLLOW of that non-terminal grew.
func (g *Grammar) followAt(p *Production, syms []Symbol, i int) bool {
	changed := false
	follow := g.followSets[syms[i].Code()]
	if i == len(syms)-1 {
		// rightmost symbol inherits FOLLOW(LHS)
		return addAllButEpsilon(follow, g.followSets[p.LHS.Code()])
	}
	for j := i + 1; j < len(syms); j++ {
		sym := syms[j]
		last := j == len(syms)-1
		if sym.IsTerminal() {
			if sym.IsEpsilon() { // the empty word never blocks the suffix walk
				if last {
					if addAllButEpsilon(follow, g.followSets[p.LHS.Code()]) {
						changed = true
					}
				}
				continue
			}
			if addSym(follow, sym) {
				changed = true
			}
			break
		}
		first := g.firstSets[sym.Code()]
		nullable := first.Contains(Epsilon)
		if addAllButEpsilon(follow, first) {
			changed = true
		}
		if !nullable {
			break
		}
		if last {
			// nullable tail: inherit FOLLOW(LHS) as well
			if addAllButEpsilon(follow, g.followSets[p.LHS.Code()]) {
				changed = true
			}
		}
	}
	return changed
}

// addAllButEpsilon folds all symbols of src except ε into dest, reporting
// whether dest has grown.
func addAllButEpsilon(dest, src *treeset.Set) bool {
	changed := false
	for _, v := range src.Values() {
		s := v.(Symbol)
		if s.IsEpsilon() {
			continue
		}
		if addSym(dest, s) {
			changed = true
		}
	}
	return changed
}

// --- FIRST of symbol strings -----------------------------------------------

// SymbolString is a finite sequence of grammar symbols, as used for LR(1)
// lookahead computation (the "βa" in item [A → α‧Bβ, a]).
type SymbolString []Symbol

func (ss SymbolString) String() string {
	s := ""
	for i, sym := range ss {
		if i > 0 {
			s += " "
		}
		s += sym.String()
	}
	return s
}

// FirstOfString computes the FIRST set of a sequence of grammar symbols.
// It requires the grammar's FIRST sets, i.e. CalcFirst must have run before.
// The FIRST set of the empty sequence is {ε}.
func (g *Grammar) FirstOfString(ss SymbolString) (*treeset.Set, error) {
	if g.firstSets == nil {
		return nil, fmt.Errorf("FIRST(%s): %w", ss, ErrNotComputed)
	}
	set := newSymbolSet()
	if len(ss) == 0 {
		set.Add(Epsilon)
		return set, nil
	}
	for i, sym := range ss {
		last := i == len(ss)-1
		if sym.IsTerminal() {
			if sym.IsEpsilon() && !last {
				continue // ε within the sequence contributes nothing
			}
			set.Add(sym)
			if !sym.IsEpsilon() {
				return set, nil
			}
			continue
		}
		if sym.Code() >= len(g.firstSets) {
			return nil, fmt.Errorf("FIRST(%s): %w", sym, ErrNoSuchSymbol)
		}
		first := g.firstSets[sym.Code()]
		nullable := first.Contains(Epsilon)
		addAllButEpsilon(set, first)
		if !nullable {
			return set, nil
		}
		if last {
			set.Add(Epsilon)
		}
	}
	return set, nil
}
