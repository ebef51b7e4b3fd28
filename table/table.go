/*
Package table provides parser tables for LL- and LR-parsing.

Tables are sparse and navigate by token type and parser state (LR) or
non-terminal code (LL). All lookups return typed entries: a table cell is
either empty, an error, or one of SHIFT, REDUCE, GOTO, ACCEPT (LR), or a
production index (LL). LL error entries may carry a recovery callback.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2023 The parsegen authors

*/
package table

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/parsegen/parsegen"
	"github.com/parsegen/parsegen/table/sparse"
)

// tracer traces with key 'parsegen.table'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.table")
}

// EntryKind is the kind of an LR table entry.
type EntryKind int8

// Kinds of LR table entries.
const (
	Error EntryKind = iota
	Shift
	Reduce
	Goto
	Accept
)

func (k EntryKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Goto:
		return "goto"
	case Accept:
		return "accept"
	}
	return "error"
}

// LREntry is a cell of an LR parser table: a kind plus a number, which is a
// state for SHIFT and GOTO entries and a production index for REDUCE entries.
// The zero value is an explicit error entry.
type LREntry struct {
	kind   EntryKind
	number int
	empty  bool
}

// Kind returns the entry's kind.
func (e LREntry) Kind() EntryKind {
	return e.kind
}

// Number returns the state of a SHIFT or GOTO entry, or the production index
// of a REDUCE entry.
func (e LREntry) Number() int {
	return e.number
}

// IsEmpty returns true for cells never set.
func (e LREntry) IsEmpty() bool {
	return e.empty
}

// IsError returns true for empty cells and for explicit error entries.
func (e LREntry) IsError() bool {
	return e.empty || e.kind == Error
}

func (e LREntry) String() string {
	if e.empty {
		return "·"
	}
	switch e.kind {
	case Shift, Goto:
		return fmt.Sprintf("%s %d", e.kind, e.number)
	case Reduce:
		return fmt.Sprintf("reduce %d", e.number)
	}
	return e.kind.String()
}

// Entries are packed into a single int32 of the backing matrix:
// kind in the upper byte, number in the lower 24 bits.
func pack(kind EntryKind, number int) int32 {
	return int32(kind)<<24 | int32(number)
}

func unpack(v int32) LREntry {
	if v == sparse.DefaultNullValue {
		return LREntry{empty: true}
	}
	return LREntry{kind: EntryKind(v >> 24), number: int(v & 0xffffff)}
}

// --- LR tables -------------------------------------------------------------

// LRTable is a pair of ACTION- and GOTO-tables for an LR parser. The ACTION
// part is indexed by (state, token type), the GOTO part by (state,
// non-terminal code). Conflicts counts the cells which have been set more
// than once during construction; parsers will use the last value set.
type LRTable struct {
	actions   *sparse.IntMatrix
	gotos     *sparse.IntMatrix
	minTok    parsegen.TokType
	Conflicts int
}

// NewLRTable creates an empty LR table for a given number of parser states
// and non-terminals. minTok and maxTok bound the token-type range the ACTION
// part will be indexed with.
func NewLRTable(states, nonterms int, minTok, maxTok parsegen.TokType) *LRTable {
	if minTok > maxTok {
		panic(fmt.Sprintf("illegal token range %d…%d for LR table", minTok, maxTok))
	}
	cols := int(maxTok-minTok) + 1
	return &LRTable{
		actions: sparse.NewIntMatrix(states, cols, sparse.DefaultNullValue),
		gotos:   sparse.NewIntMatrix(states, nonterms, sparse.DefaultNullValue),
		minTok:  minTok,
	}
}

// States returns the number of parser states the table has been sized for.
func (t *LRTable) States() int {
	return t.actions.M()
}

func (t *LRTable) col(tokty parsegen.TokType) int {
	c := int(tokty - t.minTok)
	if c < 0 || c >= t.actions.N() {
		panic(fmt.Sprintf("token type %d out of range for LR table", tokty))
	}
	return c
}

func (t *LRTable) checkState(state int) {
	if state < 0 || state >= t.actions.M() {
		panic(fmt.Sprintf("state %d out of range for LR table", state))
	}
}

func (t *LRTable) setAction(state int, tokty parsegen.TokType, v int32) {
	t.checkState(state)
	j := t.col(tokty)
	if old := t.actions.Value(state, j); old != t.actions.NullValue() && old != v {
		tracer().Infof("LR table conflict in state %d: %v vs %v", state, unpack(old), unpack(v))
		t.Conflicts++
	}
	t.actions.Set(state, j, v)
}

// SetShift enters a SHIFT entry: in state, on lookahead tokty, push state to.
func (t *LRTable) SetShift(state int, tokty parsegen.TokType, to int) {
	t.setAction(state, tokty, pack(Shift, to))
}

// SetReduce enters a REDUCE entry: in state, on lookahead tokty, reduce by
// production prod.
func (t *LRTable) SetReduce(state int, tokty parsegen.TokType, prod int) {
	t.setAction(state, tokty, pack(Reduce, prod))
}

// SetAccept enters an ACCEPT entry in state, on lookahead tokty.
func (t *LRTable) SetAccept(state int, tokty parsegen.TokType) {
	t.setAction(state, tokty, pack(Accept, 0))
}

// Action returns the ACTION entry for a state and a lookahead token type.
// A state out of range is a programming error and will panic; a token type
// outside the table's range yields an empty error entry.
func (t *LRTable) Action(state int, tokty parsegen.TokType) LREntry {
	t.checkState(state)
	if j := int(tokty - t.minTok); j < 0 || j >= t.actions.N() {
		return LREntry{empty: true}
	}
	return unpack(t.actions.Value(state, t.col(tokty)))
}

// SetGoto enters a GOTO entry: in state, for non-terminal code nt, move to
// state to.
func (t *LRTable) SetGoto(state, nt, to int) {
	t.checkState(state)
	t.gotos.Set(state, nt, pack(Goto, to))
}

// Goto returns the GOTO entry for a state and a non-terminal code.
func (t *LRTable) Goto(state, nt int) LREntry {
	t.checkState(state)
	if nt < 0 || nt >= t.gotos.N() {
		panic(fmt.Sprintf("non-terminal code %d out of range for LR table", nt))
	}
	return unpack(t.gotos.Value(state, nt))
}

// Gotos returns the non-terminal codes for which a state has GOTO entries.
// States without any are candidates for popping during error recovery.
func (t *LRTable) Gotos(state int) []int {
	t.checkState(state)
	var nts []int
	t.gotos.EachInRow(state, func(j int, v int32) {
		nts = append(nts, j)
	})
	return nts
}
