package grammar

import (
	"strings"

	"github.com/ashgrove/rustlite/internal/ictiobus/rerrors"
	"github.com/ashgrove/rustlite/internal/ictiobus/support"
)

// FirstEngine computes FIRST sets over symbol strings, memoized by the
// exact symbol-tuple key (§4.3). One engine is built per Grammar and
// reused across the closure computation of the table builder.
type FirstEngine struct {
	g     Grammar
	cache map[string]support.StringSet
}

func NewFirstEngine(g Grammar) *FirstEngine {
	return &FirstEngine{g: g, cache: map[string]support.StringSet{}}
}

func cacheKey(symbols []string) string {
	return strings.Join(symbols, "\x00")
}

// First returns FIRST(X1...Xn) for the given symbol sequence, or a
// *rerrors.GrammarError if any symbol is neither a declared terminal, "$",
// ε, nor an inferred nonterminal. ε, when present, is represented by the
// empty string "" as a member of the returned set.
func (fe *FirstEngine) First(symbols []string) (support.StringSet, error) {
	key := cacheKey(symbols)
	if cached, ok := fe.cache[key]; ok {
		return cached, nil
	}

	result, err := fe.compute(symbols, support.NewStringSet())
	if err != nil {
		return nil, err
	}
	fe.cache[key] = result
	return result, nil
}

func (fe *FirstEngine) compute(symbols []string, visiting support.StringSet) (support.StringSet, error) {
	if len(symbols) == 0 {
		return support.NewStringSet(Epsilon), nil
	}

	result := support.NewStringSet()
	for i, sym := range symbols {
		symFirst, err := fe.firstOfSymbol(sym, visiting)
		if err != nil {
			return nil, err
		}
		hasEpsilon := symFirst.Has(Epsilon)
		for _, t := range symFirst.Elements() {
			if t != Epsilon {
				result.Add(t)
			}
		}
		if !hasEpsilon {
			return result, nil
		}
		if i == len(symbols)-1 {
			result.Add(Epsilon)
		}
	}
	return result, nil
}

func (fe *FirstEngine) firstOfSymbol(sym string, visiting support.StringSet) (support.StringSet, error) {
	if sym == Epsilon {
		return support.NewStringSet(Epsilon), nil
	}
	if sym == "$" {
		return support.NewStringSet("$"), nil
	}
	if fe.g.IsTerminal(sym) {
		return support.NewStringSet(sym), nil
	}

	rule, ok := fe.g.Rule(sym)
	if !ok {
		return nil, rerrors.NewUnknownSymbolError(sym)
	}

	// per-call visited set guards recursion through ε-cycles: a nonterminal
	// being expanded while already on the call stack contributes nothing
	// further to its own FIRST set.
	if visiting.Has(sym) {
		return support.NewStringSet(), nil
	}
	visiting = visiting.Copy()
	visiting.Add(sym)

	result := support.NewStringSet()
	for _, body := range rule.Productions {
		bodyFirst, err := fe.compute(body, visiting)
		if err != nil {
			return nil, err
		}
		result.AddAll(bodyFirst)
	}
	return result, nil
}
