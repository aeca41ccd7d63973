// Package lrtable builds the canonical LR(1) ACTION/GOTO tables (§4.4) from
// a grammar.Grammar: item-set closure and goto, the viable-prefix automaton
// built as a fixpoint over string-keyed item sets, and conflict detection.
// The state-construction idiom (sets of items canonicalized by a
// deterministic String() key, a boolean "updates" flag driving the fixpoint
// loop) is grounded on the teacher's automaton/dfa.go
// NewLR1ViablePrefixDFA, generalized here to build the tables directly
// rather than through a separate generic DFA[E] abstraction, since this
// module only ever needs the one canonical-LR(1) algorithm.
package lrtable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ashgrove/rustlite/internal/ictiobus/grammar"
	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
	"github.com/ashgrove/rustlite/internal/ictiobus/support"
	"github.com/dekarrin/rosed"
)

// ActionKind distinguishes the four outcomes recorded in the ACTION table.
type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one ACTION table cell.
type Action struct {
	Kind    ActionKind
	State   string // target state, when Kind == ActionShift
	ProdIdx int    // production to reduce by, when Kind == ActionReduce
}

func (a Action) String() string {
	switch a.Kind {
	case ActionShift:
		return "shift " + a.State
	case ActionReduce:
		return fmt.Sprintf("reduce %d", a.ProdIdx)
	case ActionAccept:
		return "accept"
	default:
		return ""
	}
}

// itemSet is an LR(1) item set keyed by each item's own canonical String().
type itemSet map[string]grammar.LR1Item

func newItemSet(items ...grammar.LR1Item) itemSet {
	s := itemSet{}
	for _, it := range items {
		s[it.String()] = it
	}
	return s
}

func (s itemSet) add(it grammar.LR1Item) bool {
	k := it.String()
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = it
	return true
}

// key is the canonical name of the item set: its members' own keys, sorted
// and joined, so that two sets with identical membership always produce the
// same state name regardless of construction order.
func (s itemSet) key() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x1e")
}

func (s itemSet) sortedItems() []grammar.LR1Item {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]grammar.LR1Item, len(keys))
	for i, k := range keys {
		items[i] = s[k]
	}
	return items
}

// Table is the frozen ACTION/GOTO table pair plus bookkeeping needed by the
// driver: which state is the start state, and which nonterminal the
// augmented start production reduces.
type Table struct {
	g          grammar.Grammar // augmented grammar the tables were built against
	Start      string
	action     map[string]map[string]Action
	goTo       map[string]map[string]string
	stateOrder []string
}

// Action looks up the ACTION table cell for (state, terminal). A missing
// cell is ActionError.
func (t Table) Action(state, terminal string) Action {
	row, ok := t.action[state]
	if !ok {
		return Action{Kind: ActionError}
	}
	a, ok := row[terminal]
	if !ok {
		return Action{Kind: ActionError}
	}
	return a
}

// Goto looks up the GOTO table cell for (state, nonterminal). Returns "" and
// false if there is no such transition.
func (t Table) Goto(state, nonTerminal string) (string, bool) {
	row, ok := t.goTo[state]
	if !ok {
		return "", false
	}
	s, ok := row[nonTerminal]
	return s, ok
}

// Grammar returns the augmented grammar the table was built from; the
// driver needs it to look up production bodies and LHS symbols by index.
func (t Table) Grammar() grammar.Grammar { return t.g }

// closure computes the LR(1) closure of an item set (§4.4): repeatedly add,
// for every item [A -> α.Bβ, a] and every production B -> γ, the item
// [B -> .γ, b] for each b in FIRST(βa), until no item set changes.
func closure(g grammar.Grammar, fe *grammar.FirstEngine, items itemSet) (itemSet, error) {
	result := newItemSet()
	for _, it := range items.sortedItems() {
		result.add(it)
	}

	updates := true
	for updates {
		updates = false
		for _, it := range result.sortedItems() {
			nextSym, ok := it.NextSymbol()
			if !ok || !g.IsNonTerminal(nextSym) {
				continue
			}
			rule, _ := g.Rule(nextSym)

			beta := append([]string(nil), it.Right[1:]...)
			beta = append(beta, it.Lookahead)
			lookaheads, err := fe.First(beta)
			if err != nil {
				return nil, err
			}

			for _, body := range rule.Productions {
				for _, la := range lookaheads.Elements() {
					if la == grammar.Epsilon {
						continue
					}
					newItem := grammar.LR1Item{
						LR0Item: grammar.LR0Item{
							NonTerminal: nextSym,
							Left:        nil,
							Right:       append([]string(nil), body...),
						},
						Lookahead: la,
					}
					if result.add(newItem) {
						updates = true
					}
				}
			}
		}
	}

	return result, nil
}

// gotoSet computes GOTO(items, sym): advance the dot past sym in every item
// where sym immediately follows the dot, then close the result.
func gotoSet(g grammar.Grammar, fe *grammar.FirstEngine, items itemSet, sym string) (itemSet, error) {
	moved := newItemSet()
	for _, it := range items.sortedItems() {
		next, ok := it.NextSymbol()
		if ok && next == sym {
			moved.add(it.Advance())
		}
	}
	if len(moved) == 0 {
		return moved, nil
	}
	return closure(g, fe, moved)
}

// Build constructs the canonical LR(1) ACTION/GOTO tables for g. g must be
// the unaugmented grammar; Build augments it internally. Returns a
// *rerrors.GrammarError with Kind GrammarConflict on any shift/reduce or
// reduce/reduce conflict, naming both competing actions.
func Build(g grammar.Grammar) (Table, error) {
	oldStart := g.StartSymbol()
	ag := g.Augmented()
	fe := grammar.NewFirstEngine(ag)

	startItem := grammar.LR1Item{
		LR0Item:   grammar.LR0Item{NonTerminal: ag.StartSymbol(), Right: []string{oldStart}},
		Lookahead: "$",
	}
	startSet, err := closure(ag, fe, newItemSet(startItem))
	if err != nil {
		return Table{}, err
	}

	states := map[string]itemSet{}
	states[startSet.key()] = startSet
	stateOrder := []string{startSet.key()}

	type transition struct{ from, sym, to string }
	var transitions []transition

	updates := true
	for updates {
		updates = false
		for _, stateKey := range append([]string(nil), stateOrder...) {
			I := states[stateKey]

			symsSeen := support.NewStringSet()
			for _, it := range I.sortedItems() {
				sym, ok := it.NextSymbol()
				if !ok || symsSeen.Has(sym) {
					continue
				}
				symsSeen.Add(sym)

				gset, err := gotoSet(ag, fe, I, sym)
				if err != nil {
					return Table{}, err
				}
				if len(gset) == 0 {
					continue
				}
				gkey := gset.key()
				if _, ok := states[gkey]; !ok {
					states[gkey] = gset
					stateOrder = append(stateOrder, gkey)
					updates = true
				}
				transitions = append(transitions, transition{from: stateKey, sym: sym, to: gkey})
			}
		}
	}

	t := Table{
		g:          ag,
		Start:      startSet.key(),
		action:     map[string]map[string]Action{},
		goTo:       map[string]map[string]string{},
		stateOrder: stateOrder,
	}

	setAction := func(state, term string, a Action) error {
		row, ok := t.action[state]
		if !ok {
			row = map[string]Action{}
			t.action[state] = row
		}
		if existing, ok := row[term]; ok && existing != a {
			return rerrors.NewConflictError(state, term, existing.String(), a.String())
		}
		row[term] = a
		return nil
	}

	for _, tr := range transitions {
		if ag.IsTerminal(tr.sym) {
			if err := setAction(tr.from, tr.sym, Action{Kind: ActionShift, State: tr.to}); err != nil {
				return Table{}, err
			}
		} else {
			row, ok := t.goTo[tr.from]
			if !ok {
				row = map[string]string{}
				t.goTo[tr.from] = row
			}
			row[tr.sym] = tr.to
		}
	}

	for _, stateKey := range stateOrder {
		for _, it := range states[stateKey].sortedItems() {
			if !it.AtEnd() {
				continue
			}
			if it.NonTerminal == ag.StartSymbol() && it.Lookahead == "$" {
				if err := setAction(stateKey, "$", Action{Kind: ActionAccept}); err != nil {
					return Table{}, err
				}
				continue
			}
			rule, _ := ag.Rule(it.NonTerminal)
			var prodIdx = -1
			for _, prod := range ag.Productions() {
				if prod.NonTerminal != it.NonTerminal {
					continue
				}
				if len(prod.Body) != len(it.Left) {
					continue
				}
				match := true
				for i, s := range prod.Body {
					if it.Left[i] != s {
						match = false
						break
					}
				}
				if match {
					prodIdx = prod.Index
					break
				}
			}
			_ = rule
			if prodIdx == -1 {
				return Table{}, rerrors.NewUnknownSymbolError(it.NonTerminal)
			}
			if err := setAction(stateKey, it.Lookahead, Action{Kind: ActionReduce, ProdIdx: prodIdx}); err != nil {
				return Table{}, err
			}
		}
	}

	return t, nil
}

// String renders the ACTION/GOTO tables as a fixed-width grid, in the
// teacher's rosed-backed pretty-printing style (parse/clr1.go's
// Table.String).
func (t Table) String() string {
	terms := append([]string(nil), t.g.Terminals()...)
	terms = append(terms, "$")
	nts := t.g.NonTerminals()

	header := append([]string{"STATE"}, terms...)
	header = append(header, nts...)

	data := [][]string{header}
	for _, s := range t.stateOrder {
		row := []string{s}
		for _, term := range terms {
			row = append(row, t.Action(s, term).String())
		}
		for _, nt := range nts {
			g, _ := t.Goto(s, nt)
			row = append(row, g)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
