// Package symbols is the scope-table collaborator the analyzers consume
// as input: a symbol table keyed by scope identifier. Every
// scope-bearing AST node is assigned a ScopeID; a Scope holds that
// scope's own bindings and chains to an outer scope for anything not
// found locally.
package symbols

import "github.com/vellumlang/vellum/internal/ir"

// ScopeID identifies one scope-bearing AST node (a package, class,
// trait, function body, or block).
type ScopeID int

// DefnInfo is what a name resolves to: the underlying definition plus
// enough shape information for the analyzer to build a type without
// re-deriving it from the raw Defn every time.
type DefnInfo struct {
	Name        string
	Defn        any
	Kind        DefnKind
	OverloadSet []*ir.Function // populated when Kind == KindOverloadSet
	OriginScope ScopeID
}

type DefnKind int

const (
	KindVariable DefnKind = iota
	KindGlobal
	KindClass
	KindTrait
	KindFunction
	KindOverloadSet
	KindTypeParameter
	KindPackage
)

// Binding is one name's resolution within a single scope. A name may
// carry more than one Function (overloads); anything else is a single
// definition.
type Binding struct {
	Name     string
	Kind     DefnKind
	Single   any
	Overload []*ir.Function
}

// Scope holds one scope-bearing node's own bindings and chains outward
// for anything it does not itself define, mirroring the outer-chained
// lookup pattern used throughout the example corpus's symbol tables.
type Scope struct {
	ID       ScopeID
	outer    *Scope
	bindings map[string]*Binding

	// openExistentials holds the type parameters a match arm has opened
	// from an existential receiver or test pattern; a sibling type-test
	// pattern in the same arm may reuse a variable introduced by an
	// enclosing existential.
	openExistentials map[ir.DefnID]bool
}

func NewScope(id ScopeID, outer *Scope) *Scope {
	return &Scope{ID: id, outer: outer, bindings: make(map[string]*Binding)}
}

// OwnBindings returns this scope's locally defined bindings, without
// consulting outer scopes. The inheritance analyzer walks these to
// resolve overrides and copy inherited members; callers
// must not mutate the returned map's Binding values outside the
// analyzer's own inheriting step.
func (s *Scope) OwnBindings() map[string]*Binding { return s.bindings }

// OpenExistential records that tp has been opened (treated as a fresh
// variable) within this scope, so a sibling type-test pattern's `_`
// type argument may be unified with it instead of rejected as escaping.
func (s *Scope) OpenExistential(tp *ir.TypeParameter) {
	if s.openExistentials == nil {
		s.openExistentials = make(map[ir.DefnID]bool)
	}
	s.openExistentials[tp.ID()] = true
}

// HasOpenExistential reports whether tp was opened in this scope or any
// enclosing one.
func (s *Scope) HasOpenExistential(tp *ir.TypeParameter) bool {
	for cur := s; cur != nil; cur = cur.outer {
		if cur.openExistentials[tp.ID()] {
			return true
		}
	}
	return false
}

func (s *Scope) Outer() *Scope { return s.outer }

// Define installs a single (non-overloadable) binding in this scope.
func (s *Scope) Define(name string, kind DefnKind, defn any) {
	s.bindings[name] = &Binding{Name: name, Kind: kind, Single: defn}
}

// DefineOverload appends fn to name's overload set in this scope,
// creating the set if this is the first declaration under that name.
func (s *Scope) DefineOverload(name string, fn *ir.Function) {
	b, ok := s.bindings[name]
	if !ok {
		b = &Binding{Name: name, Kind: KindOverloadSet}
		s.bindings[name] = b
	}
	b.Overload = append(b.Overload, fn)
}

// Lookup resolves name in this scope, falling back to outer scopes.
// The bool result is false only when no enclosing scope defines name.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// LookupLocal resolves name without consulting outer scopes, used when
// checking for shadowing or re-declaration within a single scope.
func (s *Scope) LookupLocal(name string) (*Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Table is the full scope collaborator for one package: every
// scope-bearing AST node's ScopeID maps to its Scope.
type Table struct {
	scopes map[ScopeID]*Scope
	next   ScopeID
}

func NewTable() *Table {
	return &Table{scopes: make(map[ScopeID]*Scope)}
}

// NewChildScope allocates a fresh ScopeID chained to outer and records
// it in the table.
func (t *Table) NewChildScope(outer *Scope) *Scope {
	t.next++
	s := NewScope(t.next, outer)
	t.scopes[s.ID] = s
	return s
}

func (t *Table) Scope(id ScopeID) (*Scope, bool) {
	s, ok := t.scopes[id]
	return s, ok
}
