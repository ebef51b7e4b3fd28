package table

import (
	"fmt"

	"github.com/parsegen/parsegen"
	"github.com/parsegen/parsegen/grammar"
	"github.com/parsegen/parsegen/table/sparse"
)

// Recovery is a callback type for syntax error recovery in LL parsers.
// Clients may attach a Recovery to error cells of a prediction table. During
// panic mode, the parser hands the callback its parse stack, the non-terminal
// it tries to synchronize, and the current lookahead token. The callback may
// modify the stack; returning true tells the parser to consider itself
// re-synchronized.
type Recovery func(stack *[]grammar.Element, top grammar.Element, tok parsegen.Token) bool

// LLEntry is a cell of an LL prediction table: either a production index or
// an error. Error entries may carry a recovery callback.
type LLEntry struct {
	prod   int
	err    bool
	empty  bool
	resume Recovery
}

// IsError returns true for error cells, with or without recovery callback.
func (e LLEntry) IsError() bool {
	return e.err
}

// IsEmpty returns true for cells never set.
func (e LLEntry) IsEmpty() bool {
	return e.empty
}

// Production returns the production index of a prediction entry. Calling it
// on an error entry is a programming error and will panic.
func (e LLEntry) Production() int {
	if e.err {
		panic("attempt to get production of an error entry")
	}
	return e.prod
}

// Recovery returns the recovery callback of an error entry, or nil.
func (e LLEntry) Recovery() Recovery {
	return e.resume
}

func (e LLEntry) String() string {
	if e.empty {
		return "·"
	}
	if e.err {
		if e.resume != nil {
			return "error+recovery"
		}
		return "error"
	}
	return fmt.Sprintf("predict %d", e.prod)
}

// --- LL tables -------------------------------------------------------------

// LLTable is a prediction table for a table-driven LL parser, indexed by
// (non-terminal code, token type). Conflicts counts cells set more than once
// during construction, i.e. violations of the LL(1) property.
type LLTable struct {
	prods     *sparse.IntMatrix
	resume    map[cell]Recovery
	minTok    parsegen.TokType
	Conflicts int
}

type cell struct {
	nt  int
	tok parsegen.TokType
}

// NewLLTable creates an empty LL prediction table for a given number of
// non-terminals. minTok and maxTok bound the token-type range the table will
// be indexed with; the range must include parsegen.Epsilon if the table is to
// hold epsilon predictions.
func NewLLTable(nonterms int, minTok, maxTok parsegen.TokType) *LLTable {
	if minTok > maxTok {
		panic(fmt.Sprintf("illegal token range %d…%d for LL table", minTok, maxTok))
	}
	cols := int(maxTok-minTok) + 1
	return &LLTable{
		prods:  sparse.NewIntMatrix(nonterms, cols, sparse.DefaultNullValue),
		resume: make(map[cell]Recovery),
		minTok: minTok,
	}
}

func (t *LLTable) index(nt int, tokty parsegen.TokType) (int, int) {
	if nt < 0 || nt >= t.prods.M() {
		panic(fmt.Sprintf("non-terminal code %d out of range for LL table", nt))
	}
	j := int(tokty - t.minTok)
	if j < 0 || j >= t.prods.N() {
		panic(fmt.Sprintf("token type %d out of range for LL table", tokty))
	}
	return nt, j
}

// covers returns true if a token type falls into the table's column range.
// Token types outside the range can only stem from input tokens the grammar
// has no terminals for; lookups for them yield error entries.
func (t *LLTable) covers(tokty parsegen.TokType) bool {
	j := int(tokty - t.minTok)
	return j >= 0 && j < t.prods.N()
}

// Set enters a prediction: expansion of non-terminal nt on lookahead tokty
// uses production prod.
func (t *LLTable) Set(nt int, tokty parsegen.TokType, prod int) {
	i, j := t.index(nt, tokty)
	if old := t.prods.Value(i, j); old != t.prods.NullValue() && int(old) != prod {
		tracer().Infof("LL table conflict for non-terminal %d: productions %d vs %d", nt, old, prod)
		t.Conflicts++
	}
	t.prods.Set(i, j, int32(prod))
}

// SetRecovery attaches a recovery callback to the error cell (nt, tokty).
// The cell keeps being an error cell; parsers run the callback when panic
// mode hits it.
func (t *LLTable) SetRecovery(nt int, tokty parsegen.TokType, resume Recovery) {
	t.index(nt, tokty) // bounds check
	t.resume[cell{nt: nt, tok: tokty}] = resume
}

// At returns the table entry for a non-terminal code and a lookahead token
// type. A non-terminal code out of range is a programming error and will
// panic; a token type outside the table's range yields an error entry.
func (t *LLTable) At(nt int, tokty parsegen.TokType) LLEntry {
	if !t.covers(tokty) {
		if nt < 0 || nt >= t.prods.M() {
			panic(fmt.Sprintf("non-terminal code %d out of range for LL table", nt))
		}
		return LLEntry{err: true, empty: true}
	}
	i, j := t.index(nt, tokty)
	if v := t.prods.Value(i, j); v != t.prods.NullValue() {
		return LLEntry{prod: int(v)}
	}
	if resume, ok := t.resume[cell{nt: nt, tok: tokty}]; ok {
		return LLEntry{err: true, resume: resume}
	}
	return LLEntry{err: true, empty: true}
}
