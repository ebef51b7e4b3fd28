package grammar

import (
	"fmt"

	"github.com/parsegen/parsegen"
)

// GrammarBuilder is a builder type for grammars. Clients construct a grammar
// production by production, in a fluent API style:
//
//    b := NewGrammarBuilder("G")
//    b.LHS("S").N("A").T("-", '-').End()       // S  ::= A -
//    b.LHS("A").T("a", scanner.Ident).End()    // A  ::= a
//    b.LHS("A").Epsilon()                      // A  ::= ε
//    g, err := b.Grammar()
//
// The LHS of the first production becomes the start symbol. Non-terminal
// codes are assigned densely, in order of first appearance.
type GrammarBuilder struct {
	name      string
	rules     []*Production
	nonterms  []Symbol
	ntCodes   map[string]int
	terminals map[parsegen.TokType]Symbol
}

// NewGrammarBuilder creates a builder for a grammar with a given name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:      name,
		ntCodes:   make(map[string]int),
		terminals: make(map[parsegen.TokType]Symbol),
	}
}

func (gb *GrammarBuilder) nonterm(name string) Symbol {
	if code, ok := gb.ntCodes[name]; ok {
		return gb.nonterms[code]
	}
	sym := NonTerminal(name, len(gb.nonterms))
	gb.ntCodes[name] = sym.Code()
	gb.nonterms = append(gb.nonterms, sym)
	return sym
}

func (gb *GrammarBuilder) terminal(name string, tokty parsegen.TokType) Symbol {
	if sym, ok := gb.terminals[tokty]; ok {
		return sym
	}
	sym := Terminal(name, tokty)
	gb.terminals[tokty] = sym
	return sym
}

// LHS starts a new production with a given non-terminal as its left-hand side.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{gb: gb, lhs: gb.nonterm(name)}
}

// Grammar returns the grammar constructed so far.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.rules) == 0 {
		return nil, fmt.Errorf("grammar %q has no productions", gb.name)
	}
	for _, nt := range gb.nonterms {
		found := false
		for _, p := range gb.rules {
			if p.LHS.Equals(nt) {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("grammar %q: no production for non-terminal %s", gb.name, nt)
		}
	}
	g := &Grammar{
		Name:      gb.name,
		rules:     gb.rules,
		nonterms:  gb.nonterms,
		terminals: gb.terminals,
	}
	tracer().Infof("grammar %s: %d productions, %d non-terminals, %d terminals",
		g.Name, len(g.rules), len(g.nonterms), len(g.terminals))
	return g, nil
}

// RuleBuilder is a builder type for a single production. Methods append
// elements to the production's body; End and Epsilon finish the production
// and hand it over to the grammar builder.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs Symbol
	rhs []Element
}

// N appends a non-terminal to the production's body.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, Elem(rb.gb.nonterm(name)))
	return rb
}

// T appends a terminal to the production's body. name is for display only,
// tokty identifies the terminal.
func (rb *RuleBuilder) T(name string, tokty parsegen.TokType) *RuleBuilder {
	rb.rhs = append(rb.rhs, Elem(rb.gb.terminal(name, tokty)))
	return rb
}

// EOF appends the end-of-input terminal to the production's body.
func (rb *RuleBuilder) EOF() *RuleBuilder {
	rb.rhs = append(rb.rhs, Elem(EOF))
	return rb
}

// Action appends an action record to the production's body. An LL parser will
// call action with the given payload when it pops the record off its stack.
func (rb *RuleBuilder) Action(payload interface{}, action RecordAction) *RuleBuilder {
	rb.rhs = append(rb.rhs, Action(payload, action))
	return rb
}

// End finishes the production and returns it. The production is part of the
// grammar under construction; the return value lets clients attach a reduce
// action:
//
//    b.LHS("E").N("E").T("+", '+').N("T").End().OnReduce = sumUp
//
func (rb *RuleBuilder) End() *Production {
	if len(rb.rhs) == 0 {
		// treat an empty body like an explicit Epsilon() call
		return rb.Epsilon()
	}
	p := newProduction(rb.lhs, rb.rhs, len(rb.gb.rules))
	rb.gb.rules = append(rb.gb.rules, p)
	tracer().Debugf("appending production %s", p)
	return p
}

// Epsilon finishes the production as an epsilon production, i.e. with ε as
// its only body symbol.
func (rb *RuleBuilder) Epsilon() *Production {
	rb.rhs = append(rb.rhs, Elem(Epsilon))
	p := newProduction(rb.lhs, rb.rhs, len(rb.gb.rules))
	rb.gb.rules = append(rb.gb.rules, p)
	tracer().Debugf("appending epsilon production %s", p)
	return p
}
