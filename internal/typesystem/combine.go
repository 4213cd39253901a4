package typesystem

import "github.com/vellumlang/vellum/internal/ir"

// Combine computes the static result type of a binary arithmetic or
// comparison operator applied to operands of type a and y: numeric
// operators widen to the wider primitive, comparisons always yield
// Bool, and anything else falls back to Lub so user-overloadable
// operators on class types still get a sensible inferred type when no
// operator method is found.
func Combine(b *ir.Builtins, op string, a, y ir.Type) ir.Type {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return ir.Primitive(ir.Bool)
	}
	ap, aok := a.(*ir.PrimitiveType)
	yp, yok := y.(*ir.PrimitiveType)
	if aok && yok && ap.Kind.IsNumeric() && yp.Kind.IsNumeric() {
		if ap.Kind.Width() >= yp.Kind.Width() {
			return ap
		}
		return yp
	}
	return Lub(b, a, y)
}
