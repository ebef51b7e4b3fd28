/*
Package items implements LR items and item-sets for LR parser construction.

An item is a production with a marker position ("dot") in its body, plus an
optional set of lookahead terminals. Item-sets support the classic CLOSURE
and GOTO operations, in LR(0) as well as LR(1) flavour, and are the building
blocks of the canonical collection of item-sets.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2023 The parsegen authors

*/
package items

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/schuko/tracing"

	"github.com/parsegen/parsegen/grammar"
)

// tracer traces with key 'parsegen.items'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.items")
}

// --- Items -----------------------------------------------------------------

// Item is a production with a dot position, i.e. an entry of an LR state.
// The dot counts grammar symbols only; a second cursor over all body elements,
// including record elements, is maintained alongside and available as
// ActualDot. Items without lookaheads are LR(0) items, items carrying
// lookahead terminals are LR(1) items.
type Item struct {
	Rule *grammar.Production
	dot  int
	adot int          // dot position over all body elements
	las  *treeset.Set // lookahead terminals, empty for LR(0) items
}

// NewItem creates an item for a production, with the dot at position dot
// (counting grammar symbols) and an optional set of lookahead terminals.
func NewItem(p *grammar.Production, dot int, lookahead ...grammar.Symbol) (*Item, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot create item without a production")
	}
	if dot < 0 || dot > p.Size() {
		return nil, fmt.Errorf("dot position %d out of range for %s", dot, p)
	}
	las := treeset.NewWith(grammar.SymbolComparator)
	for _, la := range lookahead {
		las.Add(la)
	}
	return &Item{
		Rule: p,
		dot:  dot,
		adot: actualDot(p.RHS(), dot),
		las:  las,
	}, nil
}

// actualDot maps a dot position over grammar symbols onto the corresponding
// position over all body elements. Record elements and ε directly after the
// dot are considered behind it.
func actualDot(rhs []grammar.Element, dot int) int {
	seen := 0
	i := 0
	for ; i < len(rhs); i++ {
		e := rhs[i]
		isSym := e.IsSymbol() && !e.Symbol().IsEpsilon()
		if seen == dot {
			if isSym {
				break
			}
			continue
		}
		if isSym {
			seen++
		}
	}
	return i
}

// Dot returns the dot position, counting grammar symbols.
func (i *Item) Dot() int {
	return i.dot
}

// ActualDot returns the dot position over all body elements.
func (i *Item) ActualDot() int {
	return i.adot
}

// PeekSymbol returns the grammar symbol right after the dot, if any.
// For completed items ok is false.
func (i *Item) PeekSymbol() (grammar.Symbol, bool) {
	rhs := i.Rule.RHS()
	if i.adot >= len(rhs) {
		return grammar.Symbol{}, false
	}
	return rhs[i.adot].Symbol(), true
}

// IsComplete returns true if the dot has reached the end of the production's
// body, i.e. the item calls for a reduction.
func (i *Item) IsComplete() bool {
	return i.dot == i.Rule.Size()
}

// Advance moves the dot over the symbol after it, returning the resulting
// item. Advancing a completed item returns nil. Lookaheads travel with the
// new item; the sets are independent copies.
func (i *Item) Advance() *Item {
	if i.IsComplete() {
		return nil
	}
	adv, _ := NewItem(i.Rule, i.dot+1, i.Lookaheads()...)
	return adv
}

// Suffix returns the grammar symbols after the symbol which follows the dot,
// i.e. the β in an item [A → α‧Bβ]. Used for LR(1) lookahead computation.
func (i *Item) Suffix() grammar.SymbolString {
	syms := i.Rule.Symbols()
	var suffix grammar.SymbolString
	pos := 0
	for _, sym := range syms {
		if sym.IsEpsilon() {
			continue
		}
		if pos > i.dot {
			suffix = append(suffix, sym)
		}
		pos++
	}
	return suffix
}

// Lookaheads returns the item's lookahead terminals.
func (i *Item) Lookaheads() []grammar.Symbol {
	syms := make([]grammar.Symbol, 0, i.las.Size())
	for _, v := range i.las.Values() {
		syms = append(syms, v.(grammar.Symbol))
	}
	return syms
}

// HasLookaheads returns true for LR(1) items, i.e. items carrying at least
// one lookahead terminal.
func (i *Item) HasLookaheads() bool {
	return !i.las.Empty()
}

// addLookaheads folds the lookaheads of a set into the item's lookahead set,
// reporting whether the set has grown.
func (i *Item) addLookaheads(las *treeset.Set) bool {
	changed := false
	for _, v := range las.Values() {
		if !i.las.Contains(v) {
			i.las.Add(v)
			changed = true
		}
	}
	return changed
}

// coversLookaheads returns true if the item's lookahead set is a superset of
// another item's lookaheads.
func (i *Item) coversLookaheads(other *Item) bool {
	for _, v := range other.las.Values() {
		if !i.las.Contains(v) {
			return false
		}
	}
	return true
}

// CoreEquals compares two items disregarding their lookaheads.
func (i *Item) CoreEquals(other *Item) bool {
	return other != nil && i.Rule == other.Rule && i.dot == other.dot
}

// Equals compares two items including their lookaheads.
func (i *Item) Equals(other *Item) bool {
	return i.CoreEquals(other) && i.las.Size() == other.las.Size() &&
		i.coversLookaheads(other)
}

func (i *Item) String() string {
	s := i.Rule.LHS.String() + " ::="
	rhs := i.Rule.RHS()
	for pos, e := range rhs {
		if pos == i.adot {
			s += " ‧"
		}
		s += " " + e.String()
	}
	if i.adot >= len(rhs) {
		s += " ‧"
	}
	if !i.las.Empty() {
		s += " ["
		for n, v := range i.las.Values() {
			if n > 0 {
				s += " "
			}
			s += v.(grammar.Symbol).String()
		}
		s += "]"
	}
	return s
}

// --- Item-sets -------------------------------------------------------------

// ItemSet is a set of items, keyed by item core: inserting an item whose core
// is already present folds the lookaheads together instead of growing the
// set. The closure of an item-set is computed once and cached; item-sets are
// treated as immutable after their closure has been requested.
type ItemSet struct {
	items   []*Item
	closure *ItemSet
}

// NewItemSet creates an item-set from a list of items.
func NewItemSet(items ...*Item) *ItemSet {
	s := &ItemSet{}
	for _, i := range items {
		s.Insert(i)
	}
	return s
}

// Size returns the number of items in the set.
func (s *ItemSet) Size() int {
	return len(s.items)
}

// Empty returns true if the set contains no items.
func (s *ItemSet) Empty() bool {
	return len(s.items) == 0
}

// Items returns the items of the set. Callers must not modify the returned
// slice's items.
func (s *ItemSet) Items() []*Item {
	dup := make([]*Item, len(s.items))
	copy(dup, s.items)
	return dup
}

// find returns the set's item with the same core as i, if any.
func (s *ItemSet) find(i *Item) *Item {
	for _, it := range s.items {
		if it.CoreEquals(i) {
			return it
		}
	}
	return nil
}

// Insert adds an item to the set. If an item with the same core is already
// present, the lookaheads are folded into it instead. Insert returns true if
// the set has changed.
func (s *ItemSet) Insert(i *Item) bool {
	if i == nil {
		return false
	}
	if present := s.find(i); present != nil {
		return present.addLookaheads(i.las)
	}
	s.items = append(s.items, i)
	return true
}

// Merge folds all items of another set into this one, returning true if the
// set has changed.
func (s *ItemSet) Merge(other *ItemSet) bool {
	changed := false
	for _, i := range other.items {
		if s.Insert(i) {
			changed = true
		}
	}
	return changed
}

// Contains returns true if the set holds an item with the same core as i and
// a lookahead set covering i's lookaheads.
func (s *ItemSet) Contains(i *Item) bool {
	present := s.find(i)
	return present != nil && present.coversLookaheads(i)
}

// CoreEquals compares two item-sets by their item cores only.
func (s *ItemSet) CoreEquals(other *ItemSet) bool {
	if other == nil || len(s.items) != len(other.items) {
		return false
	}
	for _, i := range s.items {
		if other.find(i) == nil {
			return false
		}
	}
	return true
}

// Equals compares two item-sets, including item lookaheads.
func (s *ItemSet) Equals(other *ItemSet) bool {
	if other == nil || len(s.items) != len(other.items) {
		return false
	}
	for _, i := range s.items {
		present := other.find(i)
		if present == nil || !present.Equals(i) {
			return false
		}
	}
	return true
}

// Closure computes the closure of the item-set: for every item with a
// non-terminal N after the dot, items for all alternatives of N are folded
// in, transitively. LR(0) items spawn LR(0) items; LR(1) items compute the
// lookaheads of spawned items as FIRST(βa) for every lookahead a.
//
// The closure is computed at most once and cached; it requires the grammar's
// FIRST sets for LR(1) items and will trigger their computation if necessary.
func (s *ItemSet) Closure(g *grammar.Grammar) (*ItemSet, error) {
	if s.closure != nil {
		return s.closure, nil
	}
	g.CalcFirst()
	// the work list gets independent copies: spawning may fold lookaheads
	// into dot-0 items, which must never mutate the kernel items of s
	work := arraylist.New()
	for _, i := range s.items {
		dup, err := NewItem(i.Rule, i.dot, i.Lookaheads()...)
		if err != nil {
			return nil, err
		}
		work.Add(dup)
	}
	// work grows while we scan it; newly appended items get expanded in turn
	for pos := 0; pos < work.Size(); pos++ {
		v, _ := work.Get(pos)
		item := v.(*Item)
		sym, ok := item.PeekSymbol()
		if !ok || sym.IsTerminal() {
			continue
		}
		alts := g.Alternatives(sym)
		if len(alts) == 0 {
			return nil, fmt.Errorf("no production for non-terminal %s", sym)
		}
		var las *treeset.Set
		if item.HasLookaheads() {
			var err error
			if las, err = s.spawnedLookaheads(g, item); err != nil {
				return nil, err
			}
		}
		for _, p := range alts {
			if err := spawn(work, p, las); err != nil {
				return nil, err
			}
		}
	}
	closed := &ItemSet{}
	it := work.Iterator()
	for it.Next() {
		closed.items = append(closed.items, it.Value().(*Item))
	}
	closed.closure = closed // a closure is its own closure
	s.closure = closed
	return closed, nil
}

// spawnedLookaheads computes FIRST(βa) for an item [A → α‧Bβ, a₁…aₙ], i.e.
// the lookaheads of the items spawned for B's alternatives. ε stands for
// "lookahead is inherited" and is replaced by the spawning item's lookahead.
func (s *ItemSet) spawnedLookaheads(g *grammar.Grammar, item *Item) (*treeset.Set, error) {
	las := treeset.NewWith(grammar.SymbolComparator)
	beta := item.Suffix()
	for _, la := range item.Lookaheads() {
		first, err := g.FirstOfString(append(beta, la))
		if err != nil {
			return nil, err
		}
		for _, v := range first.Values() {
			sym := v.(grammar.Symbol)
			if sym.IsEpsilon() {
				sym = la
			}
			las.Add(sym)
		}
	}
	return las, nil
}

// spawn adds an item [B → ‧γ, las] to the work list, folding lookaheads into
// an already present item with the same core.
func spawn(work *arraylist.List, p *grammar.Production, las *treeset.Set) error {
	it := work.Iterator()
	for it.Next() {
		present := it.Value().(*Item)
		if present.Rule == p && present.Dot() == 0 {
			if las != nil {
				present.addLookaheads(las)
			}
			return nil
		}
	}
	item, err := NewItem(p, 0)
	if err != nil {
		return err
	}
	if las != nil {
		item.addLookaheads(las)
	}
	work.Add(item)
	return nil
}

// Goto computes GOTO(s, sym): the closure of all items of s's closure with
// sym right after the dot, dots advanced over sym. The result is empty if no
// item of the closure expects sym.
func (s *ItemSet) Goto(g *grammar.Grammar, sym grammar.Symbol) (*ItemSet, error) {
	closure, err := s.Closure(g)
	if err != nil {
		return nil, err
	}
	kernel := &ItemSet{}
	for _, i := range closure.items {
		if next, ok := i.PeekSymbol(); ok && next.Equals(sym) {
			kernel.Insert(i.Advance())
		}
	}
	if kernel.Empty() {
		return kernel, nil
	}
	return kernel.Closure(g)
}

func (s *ItemSet) String() string {
	str := "{\n"
	for _, i := range s.items {
		str += "\t" + i.String() + "\n"
	}
	return str + "}"
}

// Dump dumps the item-set to the tracer, at debug level.
func (s *ItemSet) Dump() {
	tracer().Debugf("item-set of %d items:", len(s.items))
	for n, i := range s.items {
		tracer().Debugf("%3d: %s", n, i)
	}
}
