// Package symbols implements the symbol table (§4.5): a stack of lexical
// scopes holding Variable, Parameter, and Function symbols, grounded on the
// teacher's scope-stack shape (enter/exit paired with insert/lookup) as
// sketched by translation/binding.go's SymbolTable usage, generalized from
// AST-attribute bindings to this module's Variable/Parameter/Function kinds.
package symbols

import "github.com/ashgrove/rustlite/internal/ictiobus/rtype"

// Kind discriminates the three symbol kinds this language declares.
type Kind int

const (
	KindVariable Kind = iota
	KindParameter
	KindFunction
)

// Symbol is one entry in a scope: a name bound to a type and, for
// Variable/Parameter, a mutability flag; for Function, the parameter and
// return types needed to check call sites.
type Symbol struct {
	Name string
	Kind Kind
	Type rtype.Type
	Mut  bool

	// Function-only.
	ParamTypes []rtype.Type
	ReturnType rtype.Type

	// EntryQuad is the quadruple address the function's code begins at,
	// set once its body starts being emitted.
	EntryQuad int

	// Position is the Parameter's 0-based ordinal in its function's
	// parameter list. Meaningless for Variable/Function symbols.
	Position int
}

// Scope is one lexical level: the global scope, a function body, or a loop
// body.
type Scope struct {
	symbols map[string]Symbol
	order   []string
}

func newScope() *Scope {
	return &Scope{symbols: map[string]Symbol{}}
}

// Table is a stack of scopes. The outermost scope (index 0) holds every
// top-level function declaration; EnterScope/ExitScope push and pop
// scopes as the analyzer walks into and out of function bodies and loop
// bodies. Other blocks, including if/else arms, get no scope of their own.
type Table struct {
	scopes []*Scope
}

// NewTable returns a table with a single, permanent global scope.
func NewTable() *Table {
	return &Table{scopes: []*Scope{newScope()}}
}

// EnterScope pushes a fresh, empty scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, newScope())
}

// ExitScope pops the innermost scope. Calling it with only the global scope
// left is a programmer error in the analyzer and panics, mirroring the
// teacher's convention of panicking on an invariant violation that
// indicates a bug in the caller rather than in user input.
func (t *Table) ExitScope() {
	if len(t.scopes) <= 1 {
		panic("symbols: ExitScope called with no block scope to pop")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the number of scopes currently open, including the global
// scope.
func (t *Table) Depth() int {
	return len(t.scopes)
}

// Insert adds sym to the innermost scope, always overwriting any symbol
// already declared there under the same name (§4.5: shadowing is allowed;
// the analyzer is the one that decides, via LookupCurrentScope before
// calling Insert, whether an overwrite should also raise a Redeclared
// diagnostic — the table itself never refuses the write).
func (t *Table) Insert(sym Symbol) bool {
	cur := t.scopes[len(t.scopes)-1]
	if _, ok := cur.symbols[sym.Name]; !ok {
		cur.order = append(cur.order, sym.Name)
	}
	cur.symbols[sym.Name] = sym
	return true
}

// Lookup searches from the innermost scope outward and returns the first
// match.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupCurrentScope searches only the innermost scope, used by the
// function-header handler to detect a same-scope function redeclaration
// before calling Insert.
func (t *Table) LookupCurrentScope(name string) (Symbol, bool) {
	cur := t.scopes[len(t.scopes)-1]
	sym, ok := cur.symbols[name]
	return sym, ok
}

// GetFunction looks up a Function-kind symbol by name anywhere in scope.
// Functions are always declared at the global scope, but lookup still walks
// the whole stack for uniformity with Lookup.
func (t *Table) GetFunction(name string) (Symbol, bool) {
	sym, ok := t.Lookup(name)
	if !ok || sym.Kind != KindFunction {
		return Symbol{}, false
	}
	return sym, true
}

// Update overwrites an existing symbol's entry in whichever scope currently
// holds it (used once a pending/inferred type resolves). Returns false if
// no symbol by that name is in scope.
func (t *Table) Update(sym Symbol) bool {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if _, ok := t.scopes[i].symbols[sym.Name]; ok {
			t.scopes[i].symbols[sym.Name] = sym
			return true
		}
	}
	return false
}
