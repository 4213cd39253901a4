package diagnostics

import (
	"strings"
	"testing"

	"github.com/vellumlang/vellum/internal/token"
)

func TestCompileErrorFormatsTemplateWithArgs(t *testing.T) {
	pos := token.Position{File: "a.vm", Line: 3, Column: 7}
	err := Inheritance(ErrSelfSupertype, pos, "Box")

	got := err.Error()
	for _, want := range []string{"a.vm:3:7", string(PhaseInheritance), string(ErrSelfSupertype), "Box cannot inherit from itself"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, expected it to contain %q", got, want)
		}
	}
}

func TestCompileErrorNoPositionOmitsLocation(t *testing.T) {
	err := TypeErr(ErrReturnOutsideFunc, token.NoPosition)
	got := err.Error()
	if strings.Contains(got, "<unknown>") {
		t.Errorf("Error() = %q, expected no location prefix for NoPosition", got)
	}
	if !strings.Contains(got, "return outside of a function body") {
		t.Errorf("Error() = %q, missing expected message", got)
	}
}

func TestCompileErrorUnknownCodeDoesNotPanic(t *testing.T) {
	err := Scope(Code("S999"), token.NoPosition)
	got := err.Error()
	if !strings.Contains(got, "unknown diagnostic code S999") {
		t.Errorf("Error() = %q, expected fallback message for unregistered code", got)
	}
}

func TestConstructorsSetExpectedPhase(t *testing.T) {
	cases := []struct {
		name string
		err  *CompileError
		want Phase
	}{
		{"Inheritance", Inheritance(ErrCyclicSubtypeGraph, token.NoPosition, "A"), PhaseInheritance},
		{"TypeErr", TypeErr(ErrUnificationFailure, token.NoPosition, "f", "reason"), PhaseTypeCheck},
		{"Scope", Scope(ErrUnresolvedName, token.NoPosition, "x"), PhaseScope},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Phase != tc.want {
				t.Errorf("Phase = %v, want %v", tc.err.Phase, tc.want)
			}
		})
	}
}

func TestEveryTemplatedCodeHasAMatchingTemplate(t *testing.T) {
	codes := []Code{
		ErrCyclicSubtypeGraph, ErrSelfSupertype, ErrNullableSupertype, ErrInheritNothing,
		ErrInheritFinal, ErrTraitBeforeClass, ErrDiamondConflict, ErrDuplicateSupertype,
		ErrAbstractNotOverridden, ErrArrayDescendantInvalid, ErrCannotOverload,
		ErrOverrideFinal, ErrOverrideCollision, ErrSpuriousOverride, ErrMissingOverride,
		ErrSupertypeBaseMismatch,
		ErrUnificationFailure, ErrSubtypeViolation, ErrTypeArgOutOfBounds, ErrDisjointOperands,
		ErrNoViableOverload, ErrAmbiguousOverload, ErrUnerasableTestType, ErrInstantiateAbstract,
		ErrPublicLeaksPrivate, ErrVarianceViolation, ErrLiteralWidensPast, ErrAssignToNonVar,
		ErrUnstableElementStore, ErrThrowNonException, ErrReturnOutsideFunc, ErrArityMismatch,
		ErrNotArrayClass, ErrFieldUninitialized,
		ErrUnresolvedName, ErrAmbiguousImport, ErrVisibilityViolation, ErrExistentialEscape,
	}
	for _, c := range codes {
		if _, ok := templates[c]; !ok {
			t.Errorf("code %s has no template entry", c)
		}
	}
}
