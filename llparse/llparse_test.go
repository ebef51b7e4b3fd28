package llparse

import (
	"errors"
	"strings"
	"testing"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/parsegen/parsegen"
	"github.com/parsegen/parsegen/grammar"
	scan "github.com/parsegen/parsegen/scanner"
	"github.com/parsegen/parsegen/table"
)

// The non-left-recursive expression grammar from the dragon book.
func makeExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewGrammarBuilder("expr")
	b.LHS("E").N("T").N("E'").End()
	b.LHS("E'").T("+", '+').N("T").N("E'").End()
	b.LHS("E'").Epsilon()
	b.LHS("T").N("F").N("T'").End()
	b.LHS("T'").T("*", '*').N("F").N("T'").End()
	b.LHS("T'").Epsilon()
	b.LHS("F").T("(", '(').N("E").T(")", ')').End()
	b.LHS("F").T("id", scanner.Ident).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func makeParser(t *testing.T, g *grammar.Grammar) (*Parser, *table.LLTable) {
	t.Helper()
	tbl, err := table.BuildLLTable(g)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(g, tbl)
	if err != nil {
		t.Fatal(err)
	}
	return p, tbl
}

func parse(t *testing.T, p *Parser, input string) error {
	t.Helper()
	return p.Parse(scan.GoTokenizer("test", strings.NewReader(input)))
}

func TestLLParse1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	p, _ := makeParser(t, makeExprGrammar(t))
	for _, input := range []string{"a", "a+b", "a+b*c", "(a+b)*c", "((a))"} {
		if err := parse(t, p, input); err != nil {
			t.Errorf("expected %q to be accepted, got: %v", input, err)
		}
	}
}

func TestLLParseRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	p, _ := makeParser(t, makeExprGrammar(t))
	for _, input := range []string{"a+", "a b", "*a"} {
		if err := parse(t, p, input); err == nil {
			t.Errorf("expected %q to be rejected, was accepted", input)
		}
	}
}

func TestLLParseRecords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	var events []string
	logEvent := func(stack *[]grammar.Element, payload interface{}) {
		events = append(events, payload.(string))
	}
	spawn := func(stack *[]grammar.Element, payload interface{}) {
		events = append(events, payload.(string))
		*stack = append(*stack, grammar.Synthesized("synthesized", logEvent))
	}
	b := grammar.NewGrammarBuilder("records")
	b.LHS("S").T("+", '+').Action("between", spawn).T("!", '!').Action("after", logEvent).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, _ := makeParser(t, g)
	if err := parse(t, p, "+!"); err != nil {
		t.Fatal(err)
	}
	want := []string{"between", "synthesized", "after"}
	if len(events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, events)
	}
	for i, w := range want {
		if events[i] != w {
			t.Errorf("expected event %d to be %q, got %q", i, w, events[i])
		}
	}
}

func TestLLParseRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	p, _ := makeParser(t, makeExprGrammar(t))
	// "a + * b" has one syntax error; the parser should swallow the stray
	// star, sync on b and come out with an error tally instead of bailing out
	err := parse(t, p, "a+*b")
	if err == nil {
		t.Fatalf("expected input to be reported as erroneous")
	}
	if errors.Is(err, ErrTooManyErrors) {
		t.Errorf("expected recovery to stay within its budget, got: %v", err)
	}
}

func TestLLParseEpsilonSync(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	// A may vanish via its epsilon alternative when expansion fails
	b := grammar.NewGrammarBuilder("eps-sync")
	b.LHS("S").N("A").T("!", '!').End()
	b.LHS("A").T("+", '+').End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, _ := makeParser(t, g)
	// '?' predicts nothing: panic mode skips it and syncs on '!'
	if err := parse(t, p, "?!"); err == nil {
		t.Errorf("expected syntax errors to be reported")
	} else if errors.Is(err, ErrTooManyErrors) {
		t.Errorf("expected recovery to stay within its budget, got: %v", err)
	}
}

func TestLLParseRecoveryCallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	b := grammar.NewGrammarBuilder("callback")
	b.LHS("S").T("!", '!').N("A").T(".", '.').End()
	b.LHS("A").T("+", '+').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := table.BuildLLTable(g)
	if err != nil {
		t.Fatal(err)
	}
	called := false
	var code int
	g.EachNonTerminal(func(s grammar.Symbol) {
		if s.Name == "A" {
			code = s.Code()
		}
	})
	// ',' falls into the table's token range but has no prediction
	tbl.SetRecovery(code, ',', func(stack *[]grammar.Element, top grammar.Element, tok parsegen.Token) bool {
		called = true
		if top.Symbol().Name != "A" {
			t.Errorf("expected recovery callback to see non-terminal A, got %v", top)
		}
		return false // let the parser keep skipping
	})
	p, err := NewParser(g, tbl)
	if err != nil {
		t.Fatal(err)
	}
	if err := parse(t, p, "!,+."); err == nil {
		t.Errorf("expected syntax errors to be reported")
	}
	if !called {
		t.Errorf("expected the recovery callback to have been called")
	}
}

func TestLLParseRecoveryResync(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	b := grammar.NewGrammarBuilder("resync")
	b.LHS("S").T("!", '!').N("A").T(".", '.').End()
	b.LHS("A").T("+", '+').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := table.BuildLLTable(g)
	if err != nil {
		t.Fatal(err)
	}
	var code int
	g.EachNonTerminal(func(s grammar.Symbol) {
		if s.Name == "A" {
			code = s.Code()
		}
	})
	// the callback declares the parse re-synchronized: A vanishes and the
	// stray ',' must be consumed, so that '.' matches next
	tbl.SetRecovery(code, ',', func(stack *[]grammar.Element, top grammar.Element, tok parsegen.Token) bool {
		return true
	})
	p, err := NewParser(g, tbl)
	if err != nil {
		t.Fatal(err)
	}
	err = parse(t, p, "!,.")
	if err == nil {
		t.Fatalf("expected the syntax error to be reported")
	}
	if !strings.Contains(err.Error(), ", 1 syntax error") {
		t.Errorf("expected exactly 1 syntax error, got: %v", err)
	}
}

func TestLLParseAssignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	// S ::= id = num
	b := grammar.NewGrammarBuilder("assign")
	b.LHS("S").T("id", scanner.Ident).T("=", '=').T("num", scanner.Int).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, _ := makeParser(t, g)
	if err := parse(t, p, "x = 10"); err != nil {
		t.Errorf("expected assignment to be accepted, got: %v", err)
	}
	// missing '=': the mismatched terminal is repaired by skipping a token
	err = parse(t, p, "x 10 10")
	if err == nil {
		t.Errorf("expected syntax errors to be reported")
	} else if errors.Is(err, ErrTooManyErrors) {
		t.Errorf("expected recovery to stay within its budget, got: %v", err)
	}
}

func TestLLParseRecoveryLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.llparse")
	defer teardown()
	//
	// S ::= ! S | .
	b := grammar.NewGrammarBuilder("limit")
	b.LHS("S").T("!", '!').N("S").End()
	b.LHS("S").T(".", '.').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, _ := makeParser(t, g)
	// five stray tokens stay within the budget…
	if err := parse(t, p, "?!?!?!?!?!."); errors.Is(err, ErrTooManyErrors) {
		t.Errorf("expected 5 recoveries to stay within the budget, got: %v", err)
	}
	// …the sixth exhausts it
	if err := parse(t, p, "?!?!?!?!?!?!."); !errors.Is(err, ErrTooManyErrors) {
		t.Errorf("expected the recovery budget to be exhausted, got: %v", err)
	}
	// the budget is per parse: a fresh parse succeeds
	if err := parse(t, p, "!!."); err != nil {
		t.Errorf("expected error-free input to be accepted after recoveries, got: %v", err)
	}
}
