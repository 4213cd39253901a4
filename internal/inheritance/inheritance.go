// Package inheritance implements the inheritance analyzer: it builds
// the subtype and inheritance graphs for one package, computes each
// class/trait's full transitive supertype list, resolves method
// overrides, and inherits unshadowed bindings from base scopes.
package inheritance

import (
	"sort"

	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/graph"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/token"
	"github.com/vellumlang/vellum/internal/typesystem"
)

// Package is the minimal view of one compilation unit the analyzer
// needs: every local class/trait/type parameter, and a way to find the
// scope holding a given definition's own member bindings.
type Package struct {
	Classes        []*ir.Class
	Traits         []*ir.Trait
	TypeParameters []*ir.TypeParameter
	ScopeOf        map[ir.DefnID]*symbols.Scope

	// DeferredChecks holds the type-argument bound checks the type
	// declaration pass recorded but could not run: isSubtypeOf is only
	// safe once the subtype graph is known acyclic, so they are
	// re-examined here.
	DeferredChecks []DeferredBoundCheck
}

// DeferredBoundCheck is one recorded type argument awaiting its bounds
// check against the type parameter it instantiates.
type DeferredBoundCheck struct {
	Arg   ir.Type
	Param *ir.TypeParameter
	Pos   token.Position
}

// Analyzer runs the inheritance pass over a single Package.
type Analyzer struct {
	builtins *ir.Builtins
	pkg      *Package
	defnByID map[ir.DefnID]ir.ObjectTypeDefn
	errs     []*diagnostics.CompileError
}

func NewAnalyzer(builtins *ir.Builtins, pkg *Package) *Analyzer {
	a := &Analyzer{builtins: builtins, pkg: pkg, defnByID: make(map[ir.DefnID]ir.ObjectTypeDefn)}
	for _, c := range pkg.Classes {
		a.defnByID[c.ID()] = c
	}
	for _, t := range pkg.Traits {
		a.defnByID[t.ID()] = t
	}
	return a
}

func (a *Analyzer) errorf(code diagnostics.Code, pos token.Position, args ...interface{}) {
	a.errs = append(a.errs, diagnostics.Inheritance(code, pos, args...))
}

// Run executes the full pass: subtype-graph cycle check, inheritance
// topological order, full supertype list construction, then override
// resolution and binding inheritance. Errors are accumulated rather
// than raised; a cyclic subtype graph aborts early since nothing past
// it (isSubtypeOf above all) is safe to run.
func (a *Analyzer) Run() []*diagnostics.CompileError {
	a.errs = nil

	subtype := a.buildSubtypeGraph()
	if cyc := subtype.FindCycle(); cyc != nil {
		names := make([]string, 0, len(cyc))
		for _, id := range cyc {
			if d, ok := a.defnByID[id]; ok {
				names = append(names, d.Name())
			}
		}
		a.errorf(diagnostics.ErrCyclicSubtypeGraph, token.NoPosition, joinNames(names))
		return a.errs
	}

	a.runDeferredBoundChecks()

	inh := a.buildInheritanceGraph()
	order, ok := inh.TopoSort()
	// TopoSort lists an edge's target before its source, and the
	// inheritance graph's edges run base -> derived: reverse the order so
	// every base is processed before anything that inherits it.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	if !ok {
		// The subtype graph was acyclic, so this should not happen for a
		// single local package; defensive fallback rather than panic.
		order = a.localOrderFallback()
	}

	bases := a.buildFullSupertypeLists(order)
	a.resolveOverridesAndInherit(order, bases)

	return a.errs
}

// runDeferredBoundChecks re-examines each recorded type argument
// against its parameter's declared [lower, upper] interval. These are
// TypeErrors even though this pass raises them: the declaration pass
// deferred them here precisely because running isSubtypeOf before the
// cycle check could diverge.
func (a *Analyzer) runDeferredBoundChecks() {
	for _, chk := range a.pkg.DeferredChecks {
		if chk.Param.UpperBound != nil && !typesystem.IsSubtypeOf(chk.Arg, chk.Param.UpperBound) {
			a.errs = append(a.errs, diagnostics.TypeErr(diagnostics.ErrTypeArgOutOfBounds, chk.Pos, chk.Arg.String(), chk.Param.Name()))
			continue
		}
		if chk.Param.LowerBound != nil && !typesystem.IsSubtypeOf(chk.Param.LowerBound, chk.Arg) {
			a.errs = append(a.errs, diagnostics.TypeErr(diagnostics.ErrTypeArgOutOfBounds, chk.Pos, chk.Arg.String(), chk.Param.Name()))
		}
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " -> "
		}
		out += n
	}
	return out
}

func (a *Analyzer) localOrderFallback() []ir.DefnID {
	order := make([]ir.DefnID, 0, len(a.defnByID))
	for id := range a.defnByID {
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].String() < order[j].String() })
	return order
}

// getIDForType returns the vertex identity a type contributes to the
// subtype/inheritance graphs: a ClassType contributes its class, a
// VariableType its type parameter, and an ExistentialType delegates to
// its inner type.
func getIDForType(t ir.Type) (ir.DefnID, bool) {
	switch tt := t.(type) {
	case *ir.ClassType:
		return tt.Class.ID(), true
	case *ir.VariableType:
		return tt.Param.ID(), true
	case *ir.ExistentialType:
		return getIDForType(tt.Inner)
	default:
		return ir.NilDefnID, false
	}
}

// buildSubtypeGraph adds one vertex per local class/trait/type
// parameter and edges for every direct supertype and type-parameter
// bound, rejecting nullable supertypes, inheriting Nothing, and
// self-loops as it goes.
func (a *Analyzer) buildSubtypeGraph() *graph.Graph {
	g := graph.New()

	addObjectDefn := func(defn ir.ObjectTypeDefn) {
		g.AddNode(defn.ID())
		for _, st := range defn.Supertypes() {
			if st.Nullable {
				a.errorf(diagnostics.ErrNullableSupertype, defn.Pos(), defn.Name())
				continue
			}
			if st.Class.ID() == a.builtins.Nothing.ID() {
				a.errorf(diagnostics.ErrInheritNothing, defn.Pos(), defn.Name())
				continue
			}
			if st.Class.ID() == defn.ID() {
				a.errorf(diagnostics.ErrSelfSupertype, defn.Pos(), defn.Name())
				continue
			}
			g.AddEdge(defn.ID(), st.Class.ID())
		}
	}
	for _, c := range a.pkg.Classes {
		addObjectDefn(c)
	}
	for _, t := range a.pkg.Traits {
		addObjectDefn(t)
	}

	for _, tp := range a.pkg.TypeParameters {
		g.AddNode(tp.ID())
		if id, ok := getIDForType(tp.UpperBound); ok {
			if id == tp.ID() {
				a.errorf(diagnostics.ErrSelfSupertype, tp.Pos(), tp.Name())
			} else {
				g.AddEdge(tp.ID(), id)
			}
		}
		if id, ok := getIDForType(tp.LowerBound); ok && id != tp.ID() {
			g.AddEdge(id, tp.ID())
		}
	}
	return g
}

// buildInheritanceGraph mirrors the subtype graph but with edges
// reversed (base -> derived); Run reverses its topological order so
// every base is visited before anything that inherits it.
func (a *Analyzer) buildInheritanceGraph() *graph.Graph {
	g := graph.New()
	add := func(defn ir.ObjectTypeDefn) {
		g.AddNode(defn.ID())
		for _, st := range defn.Supertypes() {
			g.AddEdge(st.Class.ID(), defn.ID())
		}
	}
	for _, c := range a.pkg.Classes {
		add(c)
	}
	for _, t := range a.pkg.Traits {
		add(t)
	}
	return g
}

// buildFullSupertypeLists replaces each local class/trait's Supertypes
// list with the full transitive ancestry, depth-first pre-order from
// the first direct supertype, substituted for the inheriting
// definition's own type arguments. Returns, per id, its deduplicated
// direct inheritance parents.
func (a *Analyzer) buildFullSupertypeLists(order []ir.DefnID) map[ir.DefnID][]ir.DefnID {
	bases := make(map[ir.DefnID][]ir.DefnID)

	for _, id := range order {
		defn, ok := a.defnByID[id]
		if !ok {
			continue // foreign/non-local vertex; its own list is already complete
		}
		declared := defn.Supertypes()
		bases[id] = nil
		if len(declared) == 0 {
			continue // the root class itself
		}

		explicitSeen := make(map[ir.DefnID]bool, len(declared))
		for _, st := range declared {
			if explicitSeen[st.Class.ID()] {
				a.errorf(diagnostics.ErrDuplicateSupertype, defn.Pos(), defn.Name(), st.Class.Name())
				continue
			}
			explicitSeen[st.Class.ID()] = true
		}

		var baseClassType *ir.ClassType
		supertypes := declared
		if declared[0].Class.IsTrait() {
			if _, isClass := defn.(*ir.Class); isClass {
				baseClassType = a.builtins.RootType()
			} else if trait0, ok := declared[0].Class.(*ir.Trait); ok && len(trait0.Supertypes()) > 0 {
				projected := typesystem.SubstituteForInheritance(declared[0], trait0.Supertypes()[0])
				if ct, ok := projected.(*ir.ClassType); ok {
					baseClassType = ct
				}
			}
			if baseClassType == nil {
				baseClassType = a.builtins.RootType()
			}
			supertypes = append([]*ir.ClassType{baseClassType}, declared...)
		} else {
			baseClassType = declared[0]
		}

		inheritedTypeMap := make(map[ir.DefnID]*ir.ClassType)
		var inheritedTypes []*ir.ClassType
		isFirst := true

		for _, st := range supertypes {
			superDefn := st.Class
			if superDefn.Flags().Has(ir.Final) {
				a.errorf(diagnostics.ErrInheritFinal, defn.Pos(), defn.Name(), superDefn.Name())
				isFirst = false
				continue
			}
			if !isFirst {
				if _, isClass := superDefn.(*ir.Class); isClass {
					a.errorf(diagnostics.ErrTraitBeforeClass, defn.Pos(), defn.Name())
					continue
				}
			}
			var superClass ir.ObjectTypeDefn = superDefn
			if trait, ok := superDefn.(*ir.Trait); ok {
				if len(trait.Supertypes()) > 0 {
					superClass = trait.Supertypes()[0].Class
				} else {
					superClass = a.builtins.Root
				}
			}
			if baseClassType != nil && !classIsDerivedFrom(a.builtins, baseClassType.Class, superClass) {
				a.errorf(diagnostics.ErrSupertypeBaseMismatch, defn.Pos(), st.Class.Name(), defn.Name())
			}
			isFirst = false

			if existing, ok := inheritedTypeMap[superDefn.ID()]; ok {
				if !classTypeEqual(existing, st) {
					a.errorf(diagnostics.ErrDiamondConflict, defn.Pos(), defn.Name(), superDefn.Name())
				}
				continue
			}
			inheritedTypeMap[superDefn.ID()] = st
			inheritedTypes = append(inheritedTypes, st)
			bases[id] = append(bases[id], superDefn.ID())

			for _, uber := range superDefn.Supertypes() {
				uberDefn := uber.Class
				projected := typesystem.SubstituteForInheritance(st, uber)
				substituted, ok := projected.(*ir.ClassType)
				if !ok {
					continue
				}
				if existing, ok := inheritedTypeMap[uberDefn.ID()]; ok {
					if !classTypeEqual(existing, substituted) {
						a.errorf(diagnostics.ErrDiamondConflict, defn.Pos(), defn.Name(), uberDefn.Name())
					}
					continue
				}
				inheritedTypeMap[uberDefn.ID()] = substituted
				inheritedTypes = append(inheritedTypes, substituted)
			}
		}

		defn.SetSupertypes(inheritedTypes)
	}

	return bases
}

// classIsDerivedFrom reports whether a is b or has b somewhere in its
// (already-fully-expanded, since processed earlier in topological
// order) supertype list. The root class is everyone's implicit
// ancestor even though it carries no supertypes of its own.
func classIsDerivedFrom(b *ir.Builtins, a, target ir.ObjectTypeDefn) bool {
	if a.ID() == target.ID() || target.ID() == b.Root.ID() {
		return true
	}
	for _, st := range a.Supertypes() {
		if st.Class.ID() == target.ID() {
			return true
		}
	}
	return false
}

func classTypeEqual(a, b *ir.ClassType) bool {
	if a.Class.ID() != b.Class.ID() || a.Nullable != b.Nullable || len(a.TypeArgs) != len(b.TypeArgs) {
		return false
	}
	for i := range a.TypeArgs {
		if !typesystem.IsEquivalent(a.TypeArgs[i], b.TypeArgs[i]) {
			return false
		}
	}
	return true
}

// heritable reports whether a definition retains visibility when
// inherited: constructors are never inherited, and private members
// never escape their declaring scope.
func heritable(defn any) bool {
	switch v := defn.(type) {
	case *ir.Function:
		return !v.IsConstructor() && v.Flags().Visibility() != ir.Private
	case *ir.Field:
		return v.Flags().Visibility() != ir.Private
	case *ir.Global:
		return v.Flags().Visibility() != ir.Private
	default:
		return false
	}
}

func bindingFunctions(b *symbols.Binding) []*ir.Function {
	if b == nil {
		return nil
	}
	if b.Kind == symbols.KindOverloadSet {
		return b.Overload
	}
	if fn, ok := b.Single.(*ir.Function); ok {
		return []*ir.Function{fn}
	}
	return nil
}

// resolveOverridesAndInherit pairs each local method with the base
// methods it overrides, then copies every remaining heritable,
// non-shadowed, non-overridden binding from direct bases into the
// current scope.
func (a *Analyzer) resolveOverridesAndInherit(order []ir.DefnID, bases map[ir.DefnID][]ir.DefnID) {
	for _, id := range order {
		defn, ok := a.defnByID[id]
		if !ok {
			continue
		}
		scope, ok := a.pkg.ScopeOf[id]
		if !ok {
			continue
		}
		var superScopes []*symbols.Scope
		for _, baseID := range bases[id] {
			if s, ok := a.pkg.ScopeOf[baseID]; ok {
				superScopes = append(superScopes, s)
			}
		}

		overriddenIDs := make(map[ir.DefnID]bool)

		// Snapshot own-binding names before inheritance mutates the map.
		ownNames := make([]string, 0, len(scope.OwnBindings()))
		for name := range scope.OwnBindings() {
			ownNames = append(ownNames, name)
		}
		sort.Strings(ownNames)

		for _, name := range ownNames {
			if name == "this" {
				continue
			}
			binding := scope.OwnBindings()[name]
			for _, candidate := range bindingFunctions(binding) {
				if candidate.IsConstructor() || candidate.IsStatic() {
					continue
				}
				inheritedSeen := make(map[ir.DefnID]bool)
				var overrides []*ir.Function
				for _, superScope := range superScopes {
					superBinding, ok := superScope.LookupLocal(name)
					if !ok {
						continue
					}
					if fns := bindingFunctions(superBinding); fns != nil {
						for _, superFn := range fns {
							if !heritable(superFn) || inheritedSeen[superFn.ID()] {
								continue
							}
							inheritedSeen[superFn.ID()] = true
							if !mayOverride(defn, candidate, superFn) {
								continue
							}
							if superFn.IsFinal() {
								a.errorf(diagnostics.ErrOverrideFinal, candidate.Pos(), candidate.Name(), superFn.Name())
								continue
							}
							if _, already := superFn.OverriddenBy[id]; already {
								a.errorf(diagnostics.ErrOverrideCollision, candidate.Pos(), candidate.Name(), superFn.Name())
								continue
							}
							overrides = append(overrides, superFn)
							superFn.OverriddenBy[id] = candidate
							overriddenIDs[superFn.ID()] = true
						}
					} else if superBinding.Single != nil {
						a.errorf(diagnostics.ErrCannotOverload, candidate.Pos(), candidate.Name())
					}
				}
				if candidate.Flags().Has(ir.Override) && len(overrides) == 0 {
					a.errorf(diagnostics.ErrSpuriousOverride, candidate.Pos(), candidate.Name())
				}
				if !candidate.Flags().Has(ir.Override) && len(overrides) > 0 {
					a.errorf(diagnostics.ErrMissingOverride, candidate.Pos(), candidate.Name(), overrides[0].Name())
				}
				if len(overrides) > 0 {
					candidate.Overrides = overrides
				}
			}
		}

		_, isClass := defn.(*ir.Class)
		concrete := isClass && !defn.Flags().Has(ir.Abstract)

		for _, superScope := range superScopes {
			names := make([]string, 0, len(superScope.OwnBindings()))
			for name := range superScope.OwnBindings() {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				superBinding := superScope.OwnBindings()[name]
				if _, shadowed := scope.LookupLocal(name); shadowed {
					continue
				}
				fns := bindingFunctions(superBinding)
				if fns != nil {
					var remaining []*ir.Function
					for _, fn := range fns {
						if !heritable(fn) || overriddenIDs[fn.ID()] {
							continue
						}
						if concrete && fn.IsAbstract() {
							a.errorf(diagnostics.ErrAbstractNotOverridden, defn.Pos(), defn.Name(), fn.Name())
						}
						remaining = append(remaining, fn)
					}
					for _, fn := range remaining {
						scope.DefineOverload(name, fn)
					}
					continue
				}
				if fd, ok := superBinding.Single.(*ir.Field); ok && heritable(fd) {
					scope.Define(name, symbols.KindVariable, fd)
				} else if g, ok := superBinding.Single.(*ir.Global); ok && heritable(g) {
					scope.Define(name, symbols.KindGlobal, g)
				}
			}
		}

		if class, ok := defn.(*ir.Class); ok {
			if super := class.Superclass(); super != nil {
				if super.Flags().Has(ir.Array) {
					class.SetFlags(class.Flags().With(ir.Array))
					if len(class.Fields()) > 0 {
						a.errorf(diagnostics.ErrArrayDescendantInvalid, class.Pos(), class.Name())
					}
					if class.ElementType != nil && super.ElementType != nil && !typesystem.IsEquivalent(class.ElementType, super.ElementType) {
						a.errorf(diagnostics.ErrArrayDescendantInvalid, class.Pos(), class.Name())
					}
				}
				if super.Flags().Has(ir.ArrayFinal) {
					class.SetFlags(class.Flags().With(ir.ArrayFinal))
				}
			}
		}
	}
}

// mayOverride reports whether candidate (declared on deriver) may
// legally override base: matching arity, invariant parameter types and
// a covariant return type once base's signature is substituted through
// deriver's already-computed supertype entry for base's declaring
// class.
func mayOverride(deriver ir.ObjectTypeDefn, candidate, base *ir.Function) bool {
	if len(candidate.ParamTypes()) != len(base.ParamTypes()) {
		return false
	}
	if len(candidate.TypeParameters()) != len(base.TypeParameters()) {
		return false
	}
	sub := typesystem.Subst{}
	if base.DeclaringClass != nil {
		for _, st := range deriver.Supertypes() {
			if st.Class.ID() == base.DeclaringClass.ID() {
				sub = typesystem.NewSubst(base.DeclaringClass.TypeParameters(), st.TypeArgs)
				break
			}
		}
		if deriver.ID() == base.DeclaringClass.ID() {
			sub = typesystem.NewSubst(base.DeclaringClass.TypeParameters(), typeParamsAsArgs(base.DeclaringClass.TypeParameters()))
		}
	}
	// Map base's own method type parameters onto candidate's positionally.
	for i, btp := range base.TypeParameters() {
		sub[btp.ID()] = &ir.VariableType{Param: candidate.TypeParameters()[i]}
	}

	for i, bp := range base.ParamTypes() {
		substituted := typesystem.Substitute(bp, sub)
		if !typesystem.IsEquivalent(candidate.ParamTypes()[i], substituted) {
			return false
		}
	}
	substitutedReturn := typesystem.Substitute(base.ReturnType(), sub)
	return typesystem.IsSubtypeOf(candidate.ReturnType(), substitutedReturn)
}

func typeParamsAsArgs(params []*ir.TypeParameter) []ir.Type {
	out := make([]ir.Type, len(params))
	for i, p := range params {
		out[i] = &ir.VariableType{Param: p}
	}
	return out
}
