package table

import (
	"testing"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/parsegen/parsegen"
	"github.com/parsegen/parsegen/grammar"
)

func TestLRTableEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.table")
	defer teardown()
	//
	tbl := NewLRTable(4, 2, parsegen.EOF, 'z')
	tbl.SetShift(0, 'a', 2)
	tbl.SetReduce(2, parsegen.EOF, 1)
	tbl.SetAccept(1, parsegen.EOF)
	tbl.SetGoto(0, 1, 3)
	//
	if e := tbl.Action(0, 'a'); e.Kind() != Shift || e.Number() != 2 {
		t.Errorf("expected shift 2, got %s", e)
	}
	if e := tbl.Action(2, parsegen.EOF); e.Kind() != Reduce || e.Number() != 1 {
		t.Errorf("expected reduce 1, got %s", e)
	}
	if e := tbl.Action(1, parsegen.EOF); e.Kind() != Accept {
		t.Errorf("expected accept, got %s", e)
	}
	if e := tbl.Action(0, 'b'); !e.IsError() || !e.IsEmpty() {
		t.Errorf("expected unset cell to be an empty error entry, got %s", e)
	}
	if e := tbl.Goto(0, 1); e.Kind() != Goto || e.Number() != 3 {
		t.Errorf("expected goto 3, got %s", e)
	}
	if nts := tbl.Gotos(0); len(nts) != 1 || nts[0] != 1 {
		t.Errorf("expected state 0 to have a goto entry for non-terminal 1, got %v", nts)
	}
	if nts := tbl.Gotos(2); len(nts) != 0 {
		t.Errorf("expected state 2 to have no goto entries, got %v", nts)
	}
}

func TestLRTableConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.table")
	defer teardown()
	//
	tbl := NewLRTable(2, 1, parsegen.EOF, 'z')
	tbl.SetShift(0, 'a', 1)
	tbl.SetReduce(0, 'a', 3) // shift/reduce conflict
	if tbl.Conflicts != 1 {
		t.Errorf("expected 1 conflict, got %d", tbl.Conflicts)
	}
	if e := tbl.Action(0, 'a'); e.Kind() != Reduce {
		t.Errorf("expected last entry to win, got %s", e)
	}
}

func TestLRTableRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.table")
	defer teardown()
	//
	tbl := NewLRTable(2, 1, parsegen.EOF, 'z')
	// token types outside the table's range are errors, not panics:
	// input may contain tokens the grammar has no terminals for
	if e := tbl.Action(0, parsegen.Epsilon); !e.IsError() || !e.IsEmpty() {
		t.Errorf("expected out-of-range token type to yield an empty error entry, got %s", e)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected out-of-range state to panic")
		}
	}()
	tbl.Action(7, 'a')
}

func TestLLTableEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.table")
	defer teardown()
	//
	tbl := NewLLTable(2, parsegen.Epsilon, 'z')
	tbl.Set(0, 'a', 1)
	resumed := false
	tbl.SetRecovery(1, 'a', func(stack *[]grammar.Element, top grammar.Element, tok parsegen.Token) bool {
		resumed = true
		return true
	})
	//
	if e := tbl.At(0, 'a'); e.IsError() || e.Production() != 1 {
		t.Errorf("expected prediction of production 1, got %s", e)
	}
	if e := tbl.At(0, 'b'); !e.IsError() || !e.IsEmpty() {
		t.Errorf("expected unset cell to be an empty error entry, got %s", e)
	}
	e := tbl.At(1, 'a')
	if !e.IsError() || e.IsEmpty() || e.Recovery() == nil {
		t.Fatalf("expected error entry with recovery, got %s", e)
	}
	e.Recovery()(nil, grammar.Element{}, nil)
	if !resumed {
		t.Errorf("expected recovery callback to be called")
	}
}

func TestBuildLLTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.table")
	defer teardown()
	//
	// E  ::= T E' ,  E' ::= + T E' | ε ,  T ::= id
	b := grammar.NewGrammarBuilder("expr")
	b.LHS("E").N("T").N("E'").End()
	b.LHS("E'").T("+", '+').N("T").N("E'").End()
	b.LHS("E'").Epsilon()
	b.LHS("T").T("id", scanner.Ident).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := BuildLLTable(g)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Conflicts != 0 {
		t.Errorf("expected grammar to be LL(1), got %d conflicts", tbl.Conflicts)
	}
	E := ntCode(t, g, "E")
	Eprime := ntCode(t, g, "E'")
	if e := tbl.At(E, scanner.Ident); e.IsError() || e.Production() != 0 {
		t.Errorf("expected M[E,id] = 0, got %s", e)
	}
	if e := tbl.At(Eprime, '+'); e.IsError() || e.Production() != 1 {
		t.Errorf("expected M[E',+] = 1, got %s", e)
	}
	// nullable alternative predicted on FOLLOW(E') and in the ε column
	if e := tbl.At(Eprime, parsegen.EOF); e.IsError() || e.Production() != 2 {
		t.Errorf("expected M[E',#eof] = 2, got %s", e)
	}
	if e := tbl.At(Eprime, parsegen.Epsilon); e.IsError() || e.Production() != 2 {
		t.Errorf("expected M[E',ε] = 2, got %s", e)
	}
	if e := tbl.At(E, '+'); !e.IsError() {
		t.Errorf("expected M[E,+] to be an error, got %s", e)
	}
}

func TestBuildSLRTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.table")
	defer teardown()
	//
	// the augmented expression grammar from the dragon book
	b := grammar.NewGrammarBuilder("expr")
	b.LHS("E'").N("E").End()
	b.LHS("E").N("E").T("+", '+').N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").T("*", '*').N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").T("(", '(').N("E").T(")", ')').End()
	b.LHS("F").T("id", scanner.Ident).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := BuildSLRTable(g)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Conflicts != 0 {
		t.Errorf("expected grammar to be SLR(1), got %d conflicts", tbl.Conflicts)
	}
	if tbl.States() != 12 {
		t.Errorf("expected 12 states, got %d", tbl.States())
	}
	// state 0 must shift on id and ( and have gotos for E, T and F
	if e := tbl.Action(0, scanner.Ident); e.Kind() != Shift {
		t.Errorf("expected shift on id in state 0, got %s", e)
	}
	if e := tbl.Action(0, '('); e.Kind() != Shift {
		t.Errorf("expected shift on ( in state 0, got %s", e)
	}
	if nts := tbl.Gotos(0); len(nts) != 3 {
		t.Errorf("expected 3 goto entries in state 0, got %v", nts)
	}
	// the state reached over E accepts at end of input
	E := ntCode(t, g, "E")
	sE := tbl.Goto(0, E)
	if sE.IsError() {
		t.Fatalf("expected a goto entry for E in state 0")
	}
	if e := tbl.Action(sE.Number(), parsegen.EOF); e.Kind() != Accept {
		t.Errorf("expected accept in state %d, got %s", sE.Number(), e)
	}
	// the state reached over id reduces by F ::= id on +
	sid := tbl.Action(0, scanner.Ident)
	if e := tbl.Action(sid.Number(), '+'); e.Kind() != Reduce || e.Number() != 6 {
		t.Errorf("expected reduce 6 on +, got %s", e)
	}
}

func ntCode(t *testing.T, g *grammar.Grammar, name string) int {
	t.Helper()
	code := -1
	g.EachNonTerminal(func(s grammar.Symbol) {
		if s.Name == name {
			code = s.Code()
		}
	})
	if code < 0 {
		t.Fatalf("no non-terminal %s in grammar %s", name, g.Name)
	}
	return code
}
