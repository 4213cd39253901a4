// Package diagnostics is the core's single error channel. Every
// InheritanceError, TypeError, and surfaced ScopeError is a
// *CompileError carrying a code, a phase, and a source location.
package diagnostics

import (
	"fmt"

	"github.com/vellumlang/vellum/internal/token"
)

// Phase identifies which subsystem raised an error.
type Phase string

const (
	PhaseInheritance Phase = "inheritance"
	PhaseTypeCheck   Phase = "typecheck"
	PhaseScope       Phase = "scope"
)

// Code is one entry in the error taxonomy. The letter prefix matches
// the taxonomy name (I = InheritanceError, T = TypeError, S =
// ScopeError surfaced during type analysis).
type Code string

const (
	// InheritanceError
	ErrCyclicSubtypeGraph     Code = "I001"
	ErrSelfSupertype          Code = "I002"
	ErrNullableSupertype      Code = "I003"
	ErrInheritNothing         Code = "I004"
	ErrInheritFinal           Code = "I005"
	ErrTraitBeforeClass       Code = "I006"
	ErrDiamondConflict        Code = "I007"
	ErrDuplicateSupertype     Code = "I008"
	ErrAbstractNotOverridden  Code = "I009"
	ErrArrayDescendantInvalid Code = "I010"
	ErrCannotOverload         Code = "I011"
	ErrOverrideFinal          Code = "I012"
	ErrOverrideCollision      Code = "I013"
	ErrSpuriousOverride       Code = "I014"
	ErrMissingOverride        Code = "I015"
	ErrSupertypeBaseMismatch  Code = "I016"

	// TypeError
	ErrUnificationFailure   Code = "T001"
	ErrSubtypeViolation     Code = "T002"
	ErrTypeArgOutOfBounds   Code = "T003"
	ErrDisjointOperands     Code = "T004"
	ErrNoViableOverload     Code = "T005"
	ErrAmbiguousOverload    Code = "T006"
	ErrUnerasableTestType   Code = "T007"
	ErrInstantiateAbstract  Code = "T008"
	ErrPublicLeaksPrivate   Code = "T009"
	ErrVarianceViolation    Code = "T010"
	ErrLiteralWidensPast    Code = "T011"
	ErrAssignToNonVar       Code = "T012"
	ErrUnstableElementStore Code = "T013"
	ErrThrowNonException    Code = "T014"
	ErrReturnOutsideFunc    Code = "T015"
	ErrArityMismatch        Code = "T016"
	ErrNotArrayClass        Code = "T017"
	ErrFieldUninitialized   Code = "T018"

	// ScopeError
	ErrUnresolvedName      Code = "S001"
	ErrAmbiguousImport     Code = "S002"
	ErrVisibilityViolation Code = "S003"
	ErrExistentialEscape   Code = "S004"
)

var templates = map[Code]string{
	ErrCyclicSubtypeGraph:     "inheritance cycle detected involving %s",
	ErrSelfSupertype:          "%s cannot inherit from itself",
	ErrNullableSupertype:      "%s cannot inherit a nullable supertype",
	ErrInheritNothing:         "%s cannot inherit Nothing",
	ErrInheritFinal:           "%s cannot inherit from final class %s",
	ErrTraitBeforeClass:       "%s: only the first supertype may be a class",
	ErrDiamondConflict:        "%s inherits %s multiple times with different type arguments",
	ErrDuplicateSupertype:     "%s lists %s as a supertype more than once",
	ErrAbstractNotOverridden:  "concrete class %s does not override abstract method %s",
	ErrArrayDescendantInvalid: "array class %s may not redeclare fields or array element type",
	ErrCannotOverload:         "%s cannot overload a non-overloadable definition in a base scope",
	ErrOverrideFinal:          "%s cannot override final method %s",
	ErrOverrideCollision:      "%s and another method both override %s",
	ErrSpuriousOverride:       "%s is marked override but does not override anything",
	ErrMissingOverride:        "%s overrides %s but lacks the override flag",
	ErrSupertypeBaseMismatch:  "base class of supertype %s is not a superclass of %s",

	ErrUnificationFailure:   "could not infer type argument for %s: %s",
	ErrSubtypeViolation:     "expected a subtype of %s, got %s",
	ErrTypeArgOutOfBounds:   "type argument %s is outside the bounds of %s",
	ErrDisjointOperands:     "operand types %s and %s are disjoint",
	ErrNoViableOverload:     "no viable overload of %s for argument types (%s)",
	ErrAmbiguousOverload:    "ambiguous overload of %s for argument types (%s)",
	ErrUnerasableTestType:   "%s cannot be tested against at runtime",
	ErrInstantiateAbstract:  "cannot instantiate abstract class %s",
	ErrPublicLeaksPrivate:   "public member %s references less visible type %s",
	ErrVarianceViolation:    "type parameter %s used in a position its declared variance does not allow",
	ErrLiteralWidensPast:    "literal %s does not fit in declared width %s",
	ErrAssignToNonVar:       "cannot assign to non-var binding %s",
	ErrUnstableElementStore: "cannot store into existentially-quantified element of type %s",
	ErrThrowNonException:    "thrown expression of type %s is not a subtype of Exception",
	ErrReturnOutsideFunc:    "return outside of a function body",
	ErrArityMismatch:        "%s expects %d type argument(s), got %d",
	ErrNotArrayClass:        "%s is not an array class and cannot be allocated with new",
	ErrFieldUninitialized:   "constructor of %s does not initialize field %s",

	ErrUnresolvedName:      "unresolved name: %s",
	ErrAmbiguousImport:     "ambiguous import of %s",
	ErrVisibilityViolation: "%s is not visible from this scope",
	ErrExistentialEscape:   "existential variable %s used outside its enclosing type",
}

// CompileError is the single error type produced by this core.
type CompileError struct {
	Code Code
	Phase
	Pos  token.Position
	Args []interface{}
}

func New(phase Phase, code Code, pos token.Position, args ...interface{}) *CompileError {
	return &CompileError{Code: code, Phase: phase, Pos: pos, Args: args}
}

func Inheritance(code Code, pos token.Position, args ...interface{}) *CompileError {
	return New(PhaseInheritance, code, pos, args...)
}

func TypeErr(code Code, pos token.Position, args ...interface{}) *CompileError {
	return New(PhaseTypeCheck, code, pos, args...)
}

func Scope(code Code, pos token.Position, args ...interface{}) *CompileError {
	return New(PhaseScope, code, pos, args...)
}

func (e *CompileError) Error() string {
	template, ok := templates[e.Code]
	message := ""
	if ok {
		message = fmt.Sprintf(template, e.Args...)
	} else {
		message = fmt.Sprintf("unknown diagnostic code %s", e.Code)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] error %s: %s", e.Pos.String(), e.Phase, e.Code, message)
	}
	return fmt.Sprintf("[%s] error %s: %s", e.Phase, e.Code, message)
}
