package items

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"

	"github.com/parsegen/parsegen/grammar"
)

// --- Canonical collection of item-sets -------------------------------------

// Collection is the canonical collection of item-sets of a grammar: the
// states of the grammar's LR automaton, together with the GOTO transitions
// between them. State 0 is the closure of the start item.
type Collection struct {
	g     *grammar.Grammar
	sets  []*ItemSet
	index map[string]int // item-set digest → state number
	edges []edge
}

type edge struct {
	from, to int
	sym      grammar.Symbol
}

// Canonical constructs the canonical collection of item-sets for a grammar.
// The start item is production 0 with the dot at position 0, carrying the
// given lookaheads: pass grammar.EOF for a canonical LR(1) collection, no
// lookaheads for an LR(0) collection.
func Canonical(g *grammar.Grammar, lookahead ...grammar.Symbol) (*Collection, error) {
	start, err := NewItem(g.Rule(0), 0, lookahead...)
	if err != nil {
		return nil, err
	}
	state0, err := NewItemSet(start).Closure(g)
	if err != nil {
		return nil, err
	}
	c := &Collection{g: g, index: make(map[string]int)}
	c.appendState(state0)
	var symbols []grammar.Symbol
	g.EachSymbol(func(sym grammar.Symbol) {
		if !sym.IsEpsilon() && !sym.IsEOF() {
			symbols = append(symbols, sym)
		}
	})
	// c.sets grows while we scan it
	for from := 0; from < len(c.sets); from++ {
		for _, sym := range symbols {
			succ, err := c.sets[from].Goto(g, sym)
			if err != nil {
				return nil, err
			}
			if succ.Empty() {
				continue
			}
			to, known := c.index[digest(succ)]
			if !known {
				to = c.appendState(succ)
			}
			c.edges = append(c.edges, edge{from: from, to: to, sym: sym})
		}
	}
	tracer().Infof("canonical collection of %s has %d states", g.Name, len(c.sets))
	return c, nil
}

func (c *Collection) appendState(s *ItemSet) int {
	no := len(c.sets)
	c.sets = append(c.sets, s)
	c.index[digest(s)] = no
	return no
}

// Size returns the number of states of the collection.
func (c *Collection) Size() int {
	return len(c.sets)
}

// State returns the item-set of state no.
func (c *Collection) State(no int) *ItemSet {
	if no < 0 || no >= len(c.sets) {
		return nil
	}
	return c.sets[no]
}

// StateOf returns the state number of an item-set, or -1 if the set is not
// part of the collection.
func (c *Collection) StateOf(s *ItemSet) int {
	if no, ok := c.index[digest(s)]; ok {
		return no
	}
	return -1
}

// Transition returns the target state of the GOTO transition from a state
// over a grammar symbol, or -1 if there is none.
func (c *Collection) Transition(from int, sym grammar.Symbol) int {
	for _, e := range c.edges {
		if e.from == from && e.sym.Equals(sym) {
			return e.to
		}
	}
	return -1
}

// EachEdge iterates over all GOTO transitions of the collection.
func (c *Collection) EachEdge(proc func(from int, sym grammar.Symbol, to int)) {
	for _, e := range c.edges {
		proc(e.from, e.sym, e.to)
	}
}

// --- Item-set digests ------------------------------------------------------

// itemFingerprint is a hashable projection of an item. Lookaheads are part of
// the fingerprint: two states which differ in lookaheads only are distinct
// states of a canonical LR(1) automaton.
type itemFingerprint struct {
	Serial int
	Dot    int
	Las    []int
}

// digest returns a content hash of an item-set, for use as a map key when
// deduplicating states.
func digest(s *ItemSet) string {
	fps := make([]itemFingerprint, 0, len(s.items))
	for _, i := range s.items {
		fp := itemFingerprint{Serial: i.Rule.Serial, Dot: i.dot}
		for _, la := range i.Lookaheads() {
			fp.Las = append(fp.Las, int(la.TokenType()))
		}
		fps = append(fps, fp)
	}
	// item order within a set is insertion order; normalize before hashing
	sort.Slice(fps, func(i, j int) bool {
		if fps[i].Serial != fps[j].Serial {
			return fps[i].Serial < fps[j].Serial
		}
		return fps[i].Dot < fps[j].Dot
	})
	return fmt.Sprintf("%x", structhash.Md5(struct{ Items []itemFingerprint }{fps}, 1))
}
