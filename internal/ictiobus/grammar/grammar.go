// Package grammar holds the declarative grammar data structure: the set of
// terminals, the inferred set of nonterminals, indexed productions, and the
// start symbol, plus the canonical production table for this module's
// Rust-like language (see rustgrammar.go). Nothing in this package is
// specific to the language beyond rustgrammar.go's data; the construction
// and validation logic would work for any context-free grammar expressed
// this way.
package grammar

import (
	"fmt"
	"strings"

	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
)

// Epsilon denotes the empty production body.
const Epsilon = ""

// Production is the right-hand side of a rule: an ordered sequence of
// symbol names, possibly empty (denoting ε).
type Production []string

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Rule is all productions sharing one left-hand nonterminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Indexed is a production paired with the unique index assigned to it at
// grammar-construction time; reduce actions reference productions by this
// index.
type Indexed struct {
	Index       int
	NonTerminal string
	Body        Production
}

func (ip Indexed) String() string {
	return fmt.Sprintf("%d: %s -> %s", ip.Index, ip.NonTerminal, ip.Body)
}

// Grammar is an immutable-after-build declarative grammar: terminals,
// inferred nonterminals, indexed productions, and a start symbol.
type Grammar struct {
	start     string
	terminals []string
	termSet   map[string]bool
	rules     map[string]Rule
	ruleOrder []string
	prods     []Indexed // all productions in declaration order, globally indexed
}

// Builder assembles a Grammar incrementally; call Build to validate and
// freeze it.
type Builder struct {
	terminals []string
	rules     map[string]Rule
	ruleOrder []string
	start     string
}

func NewBuilder(start string) *Builder {
	return &Builder{
		rules: map[string]Rule{},
		start: start,
	}
}

// Terminal declares a terminal symbol. Declaration order is preserved for
// diagnostics and table printing.
func (b *Builder) Terminal(id string) *Builder {
	b.terminals = append(b.terminals, id)
	return b
}

// Rule appends one or more productions to the named nonterminal, creating
// the rule on first use. Declaration order of rules (and of productions
// within a rule) is preserved.
func (b *Builder) Rule(nonTerminal string, bodies ...Production) *Builder {
	r, ok := b.rules[nonTerminal]
	if !ok {
		r = Rule{NonTerminal: nonTerminal}
		b.ruleOrder = append(b.ruleOrder, nonTerminal)
	}
	r.Productions = append(r.Productions, bodies...)
	b.rules[nonTerminal] = r
	return b
}

// Build validates and freezes the grammar: every symbol appearing on a
// right-hand side must be either a declared terminal or an inferred
// nonterminal (a rule's left-hand side).
func (b *Builder) Build() (Grammar, error) {
	g := Grammar{
		start:     b.start,
		terminals: append([]string(nil), b.terminals...),
		termSet:   map[string]bool{},
		rules:     map[string]Rule{},
		ruleOrder: append([]string(nil), b.ruleOrder...),
	}
	for _, t := range g.terminals {
		g.termSet[t] = true
	}
	for nt, r := range b.rules {
		g.rules[nt] = r
	}

	idx := 0
	for _, nt := range g.ruleOrder {
		r := g.rules[nt]
		for _, body := range r.Productions {
			for _, sym := range body {
				if sym == Epsilon {
					continue
				}
				if !g.termSet[sym] {
					if _, ok := g.rules[sym]; !ok {
						return Grammar{}, rerrors.NewUnknownSymbolError(sym)
					}
				}
			}
			g.prods = append(g.prods, Indexed{Index: idx, NonTerminal: nt, Body: body})
			idx++
		}
	}

	return g, nil
}

func (g Grammar) StartSymbol() string { return g.start }

func (g Grammar) Terminals() []string {
	return append([]string(nil), g.terminals...)
}

func (g Grammar) NonTerminals() []string {
	return append([]string(nil), g.ruleOrder...)
}

func (g Grammar) IsTerminal(sym string) bool {
	if sym == "$" {
		return true
	}
	return g.termSet[sym]
}

func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rules[sym]
	return ok
}

// Rule returns the rule for the given nonterminal, and whether it exists.
func (g Grammar) Rule(nt string) (Rule, bool) {
	r, ok := g.rules[nt]
	return r, ok
}

// Productions returns every indexed production of the grammar, in
// declaration order. Indices are stable within a single Grammar value.
func (g Grammar) Productions() []Indexed {
	return append([]Indexed(nil), g.prods...)
}

// Production looks up an indexed production by its index.
func (g Grammar) Production(idx int) Indexed {
	return g.prods[idx]
}

// Augmented returns G' = G with a fresh start symbol S' and the single
// production S' -> S added, per the canonical-LR construction (§4.4). The
// new start symbol is guaranteed not to collide with any existing symbol.
func (g Grammar) Augmented() Grammar {
	newStart := g.start + "'"
	for g.IsNonTerminal(newStart) || g.IsTerminal(newStart) {
		newStart += "'"
	}

	g2 := Grammar{
		start:     newStart,
		terminals: append([]string(nil), g.terminals...),
		termSet:   map[string]bool{},
		rules:     map[string]Rule{},
		ruleOrder: append([]string{newStart}, g.ruleOrder...),
	}
	for _, t := range g2.terminals {
		g2.termSet[t] = true
	}
	for nt, r := range g.rules {
		g2.rules[nt] = r
	}
	g2.rules[newStart] = Rule{NonTerminal: newStart, Productions: []Production{{g.start}}}

	idx := 0
	for _, nt := range g2.ruleOrder {
		r := g2.rules[nt]
		for _, body := range r.Productions {
			g2.prods = append(g2.prods, Indexed{Index: idx, NonTerminal: nt, Body: body})
			idx++
		}
	}

	return g2
}
