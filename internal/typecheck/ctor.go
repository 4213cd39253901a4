package typecheck

import (
	"github.com/vellumlang/vellum/internal/ast"
	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
)

// checkConstructorInit verifies a constructor body assigns every
// object-typed, non-nullable field of its class before returning.
// Before assignment such a field holds its uninitialized value
// (Builtins.UninitializedType: null for nullable fields, Nothing
// otherwise), so a nullable field may legally stay unassigned while a
// non-nullable one may not. Primitive fields start at their kind's
// zero value and are always considered initialized.
func (a *Analyzer) checkConstructorInit(fn *ir.Function, body ast.Expr) {
	class, ok := fn.DeclaringClass.(*ir.Class)
	if !ok {
		return
	}
	assigned := make(map[string]bool)
	collectAssignedFields(body, assigned)
	for _, fd := range class.Fields() {
		switch ft := fd.Type().(type) {
		case *ir.PrimitiveType:
			continue
		case *ir.ClassType:
			if ft.Nullable {
				continue
			}
		case *ir.VariableType:
			if ft.Nullable {
				continue
			}
		}
		if !assigned[fd.Name()] {
			a.errorf(diagnostics.ErrFieldUninitialized, fn.Pos(), class.Name(), fd.Name())
		}
	}
}

// collectAssignedFields records every name a body assigns to, either as
// a bare identifier or through an explicit `this.name` target. Control
// flow is ignored: an assignment on any path counts; the check
// catches fields no constructor path ever mentions rather than
// proving definite assignment.
func collectAssignedFields(e ast.Expr, assigned map[string]bool) {
	switch n := e.(type) {
	case *ast.Assign:
		recordAssignTarget(n.Target, assigned)
		collectAssignedFields(n.Value, assigned)
	case *ast.CompoundAssign:
		recordAssignTarget(n.Target, assigned)
		collectAssignedFields(n.Value, assigned)
	case *ast.Block:
		for _, stmt := range n.Stmts {
			collectAssignedFields(stmt, assigned)
		}
	case *ast.If:
		collectAssignedFields(n.Then, assigned)
		if n.Else != nil {
			collectAssignedFields(n.Else, assigned)
		}
	case *ast.While:
		collectAssignedFields(n.Body, assigned)
	case *ast.Match:
		for _, c := range n.Cases {
			collectAssignedFields(c.Body, assigned)
		}
	case *ast.TryCatch:
		collectAssignedFields(n.Body, assigned)
		for _, c := range n.Catches {
			collectAssignedFields(c.Body, assigned)
		}
		if n.Finally != nil {
			collectAssignedFields(n.Finally, assigned)
		}
	}
}

func recordAssignTarget(target ast.Expr, assigned map[string]bool) {
	switch t := target.(type) {
	case *ast.Ident:
		assigned[t.Name] = true
	case *ast.PropertyAccess:
		switch recv := t.Receiver.(type) {
		case *ast.ThisExpr:
			assigned[t.Name] = true
		case *ast.Ident:
			if recv.Name == "this" {
				assigned[t.Name] = true
			}
		}
	}
}
