package typecheck

import (
	"fmt"
	"strings"

	"github.com/vellumlang/vellum/internal/ast"
	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/typesystem"
)

// checkExpr is the single entry point every expression-typing rule
// funnels through; it records the resolved type for n before
// returning so TypeOf can recover it later.
func (a *Analyzer) checkExpr(e ast.Expr, ctx context) ir.Type {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return a.checkIntLiteral(n)
	case *ast.FloatLiteral:
		return a.checkFloatLiteral(n)
	case *ast.BoolLiteral:
		t := ir.Type(ir.Primitive(ir.Bool))
		a.setType(n, t)
		return t
	case *ast.StringLiteral:
		t := ir.Type(a.builtins.StringType())
		a.setType(n, t)
		return t
	case *ast.NullLiteral:
		t := ir.Type(a.builtins.NothingType().WithNullable(true))
		a.setType(n, t)
		return t
	case *ast.ThisExpr:
		if ctx.this == nil {
			a.scopeErrorf(diagnostics.ErrUnresolvedName, n.Pos(), "this")
			return ir.TheAnyType
		}
		a.setType(n, ctx.this)
		return ctx.this
	case *ast.Ident:
		return a.checkIdent(n, ctx)
	case *ast.PropertyAccess:
		return a.checkPropertyAccess(n, ctx)
	case *ast.Call:
		return a.checkCall(n, ctx)
	case *ast.BinaryOp:
		return a.checkBinaryOp(n, ctx)
	case *ast.UnaryOp:
		return a.checkUnaryOp(n, ctx)
	case *ast.Assign:
		return a.checkAssign(n, ctx)
	case *ast.CompoundAssign:
		return a.checkCompoundAssign(n, ctx)
	case *ast.Block:
		return a.checkBlock(n, ctx)
	case *ast.VarDecl:
		a.checkVarDecl(n, ctx)
		t := ir.Type(ir.Primitive(ir.Unit))
		a.setType(n, t)
		return t
	case *ast.Return:
		return a.checkReturn(n, ctx)
	case *ast.Throw:
		return a.checkThrow(n, ctx)
	case *ast.If:
		return a.checkIf(n, ctx)
	case *ast.While:
		return a.checkWhile(n, ctx)
	case *ast.Match:
		return a.checkMatch(n, ctx)
	case *ast.TryCatch:
		return a.checkTryCatch(n, ctx)
	default:
		return ir.TheAnyType
	}
}

func (a *Analyzer) checkIntLiteral(n *ast.IntLiteral) ir.Type {
	kind := ir.I64
	if n.HasSuffix {
		kind = n.Suffix
	}
	if !fitsWidth(n.Value, kind) {
		a.errorf(diagnostics.ErrLiteralWidensPast, n.Pos(), fmt.Sprint(n.Value), kind.String())
	}
	t := ir.Type(ir.Primitive(kind))
	a.setType(n, t)
	return t
}

func (a *Analyzer) checkFloatLiteral(n *ast.FloatLiteral) ir.Type {
	kind := ir.F64
	if n.HasSuffix {
		kind = n.Suffix
	}
	t := ir.Type(ir.Primitive(kind))
	a.setType(n, t)
	return t
}

func (a *Analyzer) checkIdent(id *ast.Ident, ctx context) ir.Type {
	if id.Name == "this" {
		if ctx.this == nil {
			a.scopeErrorf(diagnostics.ErrUnresolvedName, id.Pos(), "this")
			return ir.TheAnyType
		}
		a.setType(id, ctx.this)
		return ctx.this
	}
	info, ok := a.resolveName(ctx.scope, id.Name)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, id.Pos(), id.Name)
		return ir.TheAnyType
	}
	a.recordUse(id, info)
	switch info.Kind {
	case symbols.KindVariable:
		switch v := info.Defn.(type) {
		case *ir.Variable:
			a.setType(id, v.Type())
			return v.Type()
		case *ir.Field:
			t := v.Type()
			if ctx.this != nil {
				if ct, ok := unwrapToClassType(ctx.this); ok {
					t = typesystem.Substitute(t, typesystem.NewSubst(ct.Class.TypeParameters(), ct.TypeArgs))
				}
			}
			a.setType(id, t)
			return t
		}
		a.scopeErrorf(diagnostics.ErrUnresolvedName, id.Pos(), id.Name)
		return ir.TheAnyType
	case symbols.KindGlobal:
		g := info.Defn.(*ir.Global)
		a.setType(id, g.Type())
		return g.Type()
	case symbols.KindFunction:
		ret := info.Defn.(*ir.Function).ReturnType()
		a.setType(id, ret)
		return ret
	case symbols.KindOverloadSet:
		if len(info.OverloadSet) == 1 {
			ret := info.OverloadSet[0].ReturnType()
			a.setType(id, ret)
			return ret
		}
		// A bare reference to an overloaded name only resolves when the
		// candidates can be disambiguated as a zero-argument call.
		_, ret := a.resolveOverload(id.Pos(), id.Name, info.OverloadSet, nil, nil, nil)
		a.setType(id, ret)
		return ret
	default:
		a.scopeErrorf(diagnostics.ErrUnresolvedName, id.Pos(), id.Name)
		return ir.TheAnyType
	}
}

func (a *Analyzer) memberScopeForInfo(info *symbols.DefnInfo) *symbols.Scope {
	switch d := info.Defn.(type) {
	case *ir.Class:
		return a.scopeOf[d.ID()]
	case *ir.Trait:
		return a.scopeOf[d.ID()]
	default:
		return nil
	}
}

// checkPropertyAccess types `Receiver.Name` used as a value (not as a
// call target; checkCall special-cases the call-target form so it can
// pass explicit arguments straight into overload resolution instead of
// forcing an intermediate zero-arg call).
func (a *Analyzer) checkPropertyAccess(pa *ast.PropertyAccess, ctx context) ir.Type {
	if id, ok := pa.Receiver.(*ast.Ident); ok {
		if info, found := a.resolveName(ctx.scope, id.Name); found && isStaticReferent(info.Kind) {
			return a.checkStaticMemberValue(info, pa, ctx)
		}
	}
	recvType := a.checkExpr(pa.Receiver, ctx)
	opened, vars := a.openExistential(recvType, ctx.scope)
	classType, ok := unwrapToClassType(opened)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	scope := a.scopeOf[classType.Class.ID()]
	if scope == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	binding, ok := scope.LookupLocal(pa.Name)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	a.checkVisibility(binding, classType.Class, pa.Pos(), pa.Name, ctx)
	sub := typesystem.NewSubst(classType.Class.TypeParameters(), classType.TypeArgs)
	switch v := binding.Single.(type) {
	case *ir.Field:
		t := ir.Close(vars, typesystem.Substitute(v.Type(), sub))
		a.setType(pa, t)
		a.recordUse(pa, bindingToInfo(pa.Name, binding, ctx.scope.ID))
		return t
	case *ir.Global:
		a.setType(pa, v.Type())
		return v.Type()
	}
	candidates := bindingFunctions(binding)
	if candidates == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	_, ret := a.resolveOverload(pa.Pos(), pa.Name, candidates, nil, nil, sub)
	ret = ir.Close(vars, ret)
	a.setType(pa, ret)
	return ret
}

func (a *Analyzer) checkStaticMemberValue(info *symbols.DefnInfo, pa *ast.PropertyAccess, ctx context) ir.Type {
	scope := a.memberScopeForInfo(info)
	if scope == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	binding, ok := scope.LookupLocal(pa.Name)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	switch v := binding.Single.(type) {
	case *ir.Field:
		a.setType(pa, v.Type())
		return v.Type()
	case *ir.Global:
		a.setType(pa, v.Type())
		return v.Type()
	}
	candidates := bindingFunctions(binding)
	if candidates == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	_, ret := a.resolveOverload(pa.Pos(), pa.Name, candidates, nil, nil, nil)
	a.setType(pa, ret)
	return ret
}

func isStaticReferent(k symbols.DefnKind) bool {
	return k == symbols.KindClass || k == symbols.KindTrait || k == symbols.KindPackage
}

func (a *Analyzer) checkArgs(args []ast.Expr, ctx context) []ir.Type {
	out := make([]ir.Type, len(args))
	for i, arg := range args {
		out[i] = a.checkExpr(arg, ctx)
	}
	return out
}

func (a *Analyzer) checkCall(call *ast.Call, ctx context) ir.Type {
	if call.IsNew {
		return a.checkNewArray(call, ctx)
	}
	switch callee := call.Callee.(type) {
	case *ast.Ident:
		info, ok := a.resolveName(ctx.scope, callee.Name)
		if !ok {
			a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), callee.Name)
			return ir.TheAnyType
		}
		if info.Kind == symbols.KindClass {
			return a.checkConstructorCall(info.Defn.(*ir.Class), call, ctx)
		}
		var candidates []*ir.Function
		switch info.Kind {
		case symbols.KindFunction:
			candidates = []*ir.Function{info.Defn.(*ir.Function)}
		case symbols.KindOverloadSet:
			candidates = info.OverloadSet
		default:
			a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), callee.Name)
			return ir.TheAnyType
		}
		argTypes := a.checkArgs(call.Args, ctx)
		fn, ret := a.resolveOverload(call.Pos(), callee.Name, candidates, call.TypeArgs, argTypes, nil)
		if fn != nil {
			a.recordUse(call, bindingToInfo(callee.Name, &symbols.Binding{Name: callee.Name, Kind: symbols.KindFunction, Single: fn}, ctx.scope.ID))
		}
		a.setType(call, ret)
		return ret
	case *ast.PropertyAccess:
		return a.checkMethodCall(callee, call, ctx)
	default:
		a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), "<call target>")
		return ir.TheAnyType
	}
}

func (a *Analyzer) checkMethodCall(pa *ast.PropertyAccess, call *ast.Call, ctx context) ir.Type {
	if id, ok := pa.Receiver.(*ast.Ident); ok {
		if info, found := a.resolveName(ctx.scope, id.Name); found && isStaticReferent(info.Kind) {
			return a.checkStaticMethodCall(info, pa.Name, call, ctx)
		}
	}
	recvType := a.checkExpr(pa.Receiver, ctx)
	opened, vars := a.openExistential(recvType, ctx.scope)
	classType, ok := unwrapToClassType(opened)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	scope := a.scopeOf[classType.Class.ID()]
	if scope == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	binding, ok := scope.LookupLocal(pa.Name)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	a.checkVisibility(binding, classType.Class, pa.Pos(), pa.Name, ctx)
	candidates := bindingFunctions(binding)
	if candidates == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pa.Pos(), pa.Name)
		return ir.TheAnyType
	}
	argTypes := a.checkArgs(call.Args, ctx)
	classSub := typesystem.NewSubst(classType.Class.TypeParameters(), classType.TypeArgs)
	_, ret := a.resolveOverload(call.Pos(), pa.Name, candidates, call.TypeArgs, argTypes, classSub)
	ret = ir.Close(vars, ret)
	a.setType(call, ret)
	return ret
}

func (a *Analyzer) checkStaticMethodCall(info *symbols.DefnInfo, name string, call *ast.Call, ctx context) ir.Type {
	scope := a.memberScopeForInfo(info)
	if scope == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), name)
		return ir.TheAnyType
	}
	binding, ok := scope.LookupLocal(name)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), name)
		return ir.TheAnyType
	}
	candidates := bindingFunctions(binding)
	if candidates == nil {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), name)
		return ir.TheAnyType
	}
	argTypes := a.checkArgs(call.Args, ctx)
	_, ret := a.resolveOverload(call.Pos(), name, candidates, call.TypeArgs, argTypes, nil)
	a.setType(call, ret)
	return ret
}

func (a *Analyzer) checkConstructorCall(class *ir.Class, call *ast.Call, ctx context) ir.Type {
	if class.Flags().Has(ir.Abstract) {
		a.errorf(diagnostics.ErrInstantiateAbstract, call.Pos(), class.Name())
	}
	if len(call.TypeArgs) > 0 && len(call.TypeArgs) != len(class.TypeParameters()) {
		a.errorf(diagnostics.ErrArityMismatch, call.Pos(), class.Name(), len(class.TypeParameters()), len(call.TypeArgs))
	}
	argTypes := a.checkArgs(call.Args, ctx)
	fn, _ := a.resolveOverload(call.Pos(), class.Name(), class.Constructors(), call.TypeArgs, argTypes, nil)
	result := &ir.ClassType{Class: class, TypeArgs: call.TypeArgs}
	if len(call.TypeArgs) == 0 && len(class.TypeParameters()) > 0 && fn != nil {
		if sub, ok := unify(class.TypeParameters(), fn.ParamTypes(), argTypes, typesystem.Subst{}); ok {
			args := make([]ir.Type, len(class.TypeParameters()))
			for i, p := range class.TypeParameters() {
				args[i] = sub[p.ID()]
			}
			result = &ir.ClassType{Class: class, TypeArgs: args}
		}
	}
	a.setType(call, result)
	return result
}

// checkNewArray types `new(ArrayLength) Class(...)`: Class must carry
// the Array flag and ArrayLength must be an i32.
func (a *Analyzer) checkNewArray(call *ast.Call, ctx context) ir.Type {
	if call.ArrayLength == nil {
		a.errorf(diagnostics.ErrSubtypeViolation, call.Pos(), "i32", "nothing")
		return ir.TheAnyType
	}
	lenType := a.checkExpr(call.ArrayLength, ctx)
	if !typesystem.IsEquivalent(lenType, ir.Primitive(ir.I32)) {
		a.errorf(diagnostics.ErrSubtypeViolation, call.ArrayLength.Pos(), "i32", lenType.String())
	}
	id, ok := call.Callee.(*ast.Ident)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), "<array class>")
		return ir.TheAnyType
	}
	info, ok := a.resolveName(ctx.scope, id.Name)
	if !ok || info.Kind != symbols.KindClass {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, call.Pos(), id.Name)
		return ir.TheAnyType
	}
	class := info.Defn.(*ir.Class)
	if !class.Flags().Has(ir.Array) {
		a.errorf(diagnostics.ErrNotArrayClass, call.Pos(), class.Name())
		return ir.TheAnyType
	}
	if class.Flags().Has(ir.Abstract) {
		a.errorf(diagnostics.ErrInstantiateAbstract, call.Pos(), class.Name())
	}
	result := ir.Type(&ir.ClassType{Class: class, TypeArgs: call.TypeArgs})
	a.setType(call, result)
	return result
}

func (a *Analyzer) resolveOperator(call ast.Node, op string, left, right ir.Type, ctx context) ir.Type {
	name := op
	l, r := left, right
	if strings.HasSuffix(op, ":") {
		l, r = right, left
	}
	if info, ok := a.resolveName(ctx.scope, name); ok {
		var candidates []*ir.Function
		switch info.Kind {
		case symbols.KindFunction:
			candidates = []*ir.Function{info.Defn.(*ir.Function)}
		case symbols.KindOverloadSet:
			candidates = info.OverloadSet
		}
		if candidates != nil {
			_, ret := a.resolveOverload(call.Pos(), name, candidates, nil, []ir.Type{l, r}, nil)
			return ret
		}
	}
	if typesystem.IsDisjoint(l, r) {
		a.errorf(diagnostics.ErrDisjointOperands, call.Pos(), l.String(), r.String())
	}
	return typesystem.Combine(a.builtins, op, l, r)
}

func (a *Analyzer) checkBinaryOp(n *ast.BinaryOp, ctx context) ir.Type {
	left := a.checkExpr(n.Left, ctx)
	right := a.checkExpr(n.Right, ctx)
	result := a.resolveOperator(n, n.Op, left, right, ctx)
	a.setType(n, result)
	return result
}

func (a *Analyzer) checkUnaryOp(n *ast.UnaryOp, ctx context) ir.Type {
	operand := a.checkExpr(n.Operand, ctx)
	result := operand
	if info, ok := a.resolveName(ctx.scope, n.Op); ok {
		var candidates []*ir.Function
		switch info.Kind {
		case symbols.KindFunction:
			candidates = []*ir.Function{info.Defn.(*ir.Function)}
		case symbols.KindOverloadSet:
			candidates = info.OverloadSet
		}
		if candidates != nil {
			_, ret := a.resolveOverload(n.Pos(), n.Op, candidates, nil, []ir.Type{operand}, nil)
			result = ret
		}
	}
	a.setType(n, result)
	return result
}

func (a *Analyzer) checkAssign(n *ast.Assign, ctx context) ir.Type {
	targetType, assignable := a.checkAssignTarget(n.Target, ctx)
	valType := a.checkExpr(n.Value, ctx)
	if assignable && !typesystem.IsSubtypeOf(valType, targetType) {
		a.errorf(diagnostics.ErrSubtypeViolation, n.Pos(), targetType.String(), valType.String())
	}
	t := ir.Type(ir.Primitive(ir.Unit))
	a.setType(n, t)
	return t
}

func (a *Analyzer) checkCompoundAssign(n *ast.CompoundAssign, ctx context) ir.Type {
	targetType, assignable := a.checkAssignTarget(n.Target, ctx)
	valType := a.checkExpr(n.Value, ctx)
	opResult := a.resolveOperator(n, n.Op, targetType, valType, ctx)
	if assignable && !typesystem.IsSubtypeOf(opResult, targetType) {
		a.errorf(diagnostics.ErrSubtypeViolation, n.Pos(), targetType.String(), opResult.String())
	}
	t := ir.Type(ir.Primitive(ir.Unit))
	a.setType(n, t)
	return t
}

// checkAssignTarget types an assignment's left-hand side and reports
// whether it is actually assignable: a `var` binding, not a `let`-like
// one, and, for a field reached through an existentially-quantified
// receiver, not a covariant-store violation (writing through an
// opened existential can break soundness even though reading through
// it is fine).
func (a *Analyzer) checkAssignTarget(e ast.Expr, ctx context) (ir.Type, bool) {
	switch t := e.(type) {
	case *ast.Ident:
		info, ok := a.resolveName(ctx.scope, t.Name)
		if !ok {
			a.scopeErrorf(diagnostics.ErrUnresolvedName, t.Pos(), t.Name)
			return ir.TheAnyType, false
		}
		switch v := info.Defn.(type) {
		case *ir.Variable:
			if !v.IsVar {
				a.errorf(diagnostics.ErrAssignToNonVar, t.Pos(), t.Name)
				return v.Type(), false
			}
			return v.Type(), true
		case *ir.Field:
			if !v.IsVar {
				a.errorf(diagnostics.ErrAssignToNonVar, t.Pos(), t.Name)
				return v.Type(), false
			}
			return v.Type(), true
		case *ir.Global:
			if !v.IsVar {
				a.errorf(diagnostics.ErrAssignToNonVar, t.Pos(), t.Name)
				return v.Type(), false
			}
			return v.Type(), true
		default:
			a.errorf(diagnostics.ErrAssignToNonVar, t.Pos(), t.Name)
			return ir.TheAnyType, false
		}
	case *ast.PropertyAccess:
		recvType := a.checkExpr(t.Receiver, ctx)
		opened, _ := a.openExistential(recvType, ctx.scope)
		classType, ok := unwrapToClassType(opened)
		if !ok {
			a.scopeErrorf(diagnostics.ErrUnresolvedName, t.Pos(), t.Name)
			return ir.TheAnyType, false
		}
		scope := a.scopeOf[classType.Class.ID()]
		if scope == nil {
			a.scopeErrorf(diagnostics.ErrUnresolvedName, t.Pos(), t.Name)
			return ir.TheAnyType, false
		}
		binding, ok := scope.LookupLocal(t.Name)
		if !ok {
			a.scopeErrorf(diagnostics.ErrUnresolvedName, t.Pos(), t.Name)
			return ir.TheAnyType, false
		}
		fd, ok := binding.Single.(*ir.Field)
		if !ok || !fd.IsVar {
			a.errorf(diagnostics.ErrAssignToNonVar, t.Pos(), t.Name)
			return ir.TheAnyType, false
		}
		sub := typesystem.NewSubst(classType.Class.TypeParameters(), classType.TypeArgs)
		fieldType := typesystem.Substitute(fd.Type(), sub)
		if _, existential := recvType.(*ir.ExistentialType); existential {
			a.errorf(diagnostics.ErrUnstableElementStore, t.Pos(), fieldType.String())
			return fieldType, false
		}
		return fieldType, true
	default:
		a.errorf(diagnostics.ErrAssignToNonVar, e.Pos(), "<expression>")
		return ir.TheAnyType, false
	}
}

func (a *Analyzer) checkBlock(b *ast.Block, ctx context) ir.Type {
	scope := a.table.NewChildScope(ctx.scope)
	bctx := ctx
	bctx.scope = scope
	var last ir.Type = ir.Primitive(ir.Unit)
	for i, stmt := range b.Stmts {
		if vd, ok := stmt.(*ast.VarDecl); ok {
			a.checkVarDecl(vd, bctx)
			last = ir.Primitive(ir.Unit)
			continue
		}
		t := a.checkExpr(stmt, bctx)
		if i == len(b.Stmts)-1 {
			last = t
		}
	}
	a.setType(b, last)
	return last
}

func (a *Analyzer) checkVarDecl(vd *ast.VarDecl, ctx context) {
	valType := a.checkExpr(vd.Value, ctx)
	t := valType
	if vd.TypeAnnotation != nil {
		if !typesystem.IsSubtypeOf(valType, vd.TypeAnnotation) {
			a.errorf(diagnostics.ErrSubtypeViolation, vd.Pos(), vd.TypeAnnotation.String(), valType.String())
		}
		t = vd.TypeAnnotation
	}
	ctx.scope.Define(vd.Name, symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: vd.Name, TypeV: t, IsVar: vd.IsVar, Position: vd.Position})
}

func (a *Analyzer) checkReturn(n *ast.Return, ctx context) ir.Type {
	if ctx.fn == nil {
		a.errorf(diagnostics.ErrReturnOutsideFunc, n.Pos())
	}
	var valType ir.Type = ir.Primitive(ir.Unit)
	if n.Value != nil {
		valType = a.checkExpr(n.Value, ctx)
	}
	if ctx.fn != nil && !typesystem.IsSubtypeOf(valType, ctx.fn.ReturnType()) {
		a.errorf(diagnostics.ErrSubtypeViolation, n.Pos(), ctx.fn.ReturnType().String(), valType.String())
	}
	a.setType(n, ir.TheNoType)
	return ir.TheNoType
}

func (a *Analyzer) checkThrow(n *ast.Throw, ctx context) ir.Type {
	valType := a.checkExpr(n.Value, ctx)
	if !typesystem.IsSubtypeOf(valType, a.builtins.ExceptionType()) {
		a.errorf(diagnostics.ErrThrowNonException, n.Pos(), valType.String())
	}
	a.setType(n, ir.TheNoType)
	return ir.TheNoType
}

func (a *Analyzer) checkIf(n *ast.If, ctx context) ir.Type {
	condType := a.checkExpr(n.Cond, ctx)
	if !typesystem.IsEquivalent(condType, ir.Primitive(ir.Bool)) {
		a.errorf(diagnostics.ErrSubtypeViolation, n.Cond.Pos(), "boolean", condType.String())
	}
	thenType := a.checkExpr(n.Then, ctx)
	if n.Else == nil {
		t := ir.Type(ir.Primitive(ir.Unit))
		a.setType(n, t)
		return t
	}
	elseType := a.checkExpr(n.Else, ctx)
	result := typesystem.Lub(a.builtins, thenType, elseType)
	a.setType(n, result)
	return result
}

func (a *Analyzer) checkWhile(n *ast.While, ctx context) ir.Type {
	condType := a.checkExpr(n.Cond, ctx)
	if !typesystem.IsEquivalent(condType, ir.Primitive(ir.Bool)) {
		a.errorf(diagnostics.ErrSubtypeViolation, n.Cond.Pos(), "boolean", condType.String())
	}
	a.checkExpr(n.Body, ctx)
	t := ir.Type(ir.Primitive(ir.Unit))
	a.setType(n, t)
	return t
}
