package types_test

import (
	"testing"

	"github.com/vsthijs/tack/internal/testutil"
	"github.com/vsthijs/tack/pkg/token"
	. "github.com/vsthijs/tack/pkg/types"
)

func TestApplyConcreteBinaryOp(t *testing.T) {
	sig, ok := IntrinsicByLexeme(token.Plus)
	if !ok {
		t.Fatal("expected '+' to be a known intrinsic")
	}
	got, popped, err := Apply(Stack{Int, Int}, sig)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !Equal(got, Stack{Int}) {
		t.Errorf("result stack = %s, want [int]", got)
	}
	if !Equal(Stack(popped), Stack{Int, Int}) {
		t.Errorf("popped = %v, want [int int]", popped)
	}
}

func TestApplySwapIsAnActualSwap(t *testing.T) {
	sig, _ := IntrinsicByLexeme(token.Swap)
	got, _, err := Apply(Stack{Int, Bool}, sig)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	testutil.AssertStackEqual(t, got, Stack{Bool, Int})
}

func TestApplyRot(t *testing.T) {
	sig, _ := IntrinsicByLexeme(token.Rot)
	got, _, err := Apply(Stack{Int, Bool, Ptr}, sig)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !Equal(got, Stack{Bool, Ptr, Int}) {
		t.Errorf("rot([int bool ptr]) = %s, want [bool ptr int]", got)
	}
}

func TestApplyDupAndOver(t *testing.T) {
	dup, _ := IntrinsicByLexeme(token.Dup)
	got, _, err := Apply(Stack{Int}, dup)
	if err != nil {
		t.Fatalf("Apply(dup): %v", err)
	}
	if !Equal(got, Stack{Int, Int}) {
		t.Errorf("dup([int]) = %s, want [int int]", got)
	}

	over, _ := IntrinsicByLexeme(token.Over)
	got, _, err = Apply(Stack{Int, Bool}, over)
	if err != nil {
		t.Fatalf("Apply(over): %v", err)
	}
	if !Equal(got, Stack{Int, Bool, Int}) {
		t.Errorf("over([int bool]) = %s, want [int bool int]", got)
	}
}

func TestApplyDrop(t *testing.T) {
	sig, _ := IntrinsicByLexeme(token.Drop)
	got, _, err := Apply(Stack{Int, Ptr}, sig)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !Equal(got, Stack{Int}) {
		t.Errorf("drop([int ptr]) = %s, want [int]", got)
	}
}

func TestApplyGenericNotPreservesBoundType(t *testing.T) {
	sig, _ := IntrinsicByLexeme(token.Not)
	got, _, err := Apply(Stack{Bool}, sig)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !Equal(got, Stack{Bool}) {
		t.Errorf("not([bool]) = %s, want [bool]", got)
	}
}

func TestApplyCastsAlwaysSucceed(t *testing.T) {
	sig, _ := IntrinsicByLexeme(token.Long)
	got, _, err := Apply(Stack{Ptr}, sig)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !Equal(got, Stack{Long}) {
		t.Errorf("cast([ptr]) = %s, want [long]", got)
	}
}

func TestApplyStrAndPtrAreCanonicallyEqual(t *testing.T) {
	sig := Signature{Kind: CastPtr, Args: []Type{Ptr, Ptr}}
	if _, _, err := Apply(Stack{Ptr, Str}, sig); err != nil {
		t.Errorf("expected str to canonicalize to ptr, got error: %v", err)
	}
}

func TestApplyNotEnoughValues(t *testing.T) {
	sig, _ := IntrinsicByLexeme(token.Plus)
	if _, _, err := Apply(Stack{Int}, sig); err == nil {
		t.Fatal("expected an error for an underflowing stack")
	}
}

func TestApplyTypeMismatch(t *testing.T) {
	sig, _ := IntrinsicByLexeme(token.Plus)
	if _, _, err := Apply(Stack{Int, Bool}, sig); err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

// TestApplyGenericPlaceholderRebindingMismatch exercises a case where the
// same placeholder is used twice with different concrete types on the
// stack, e.g. a two-argument intrinsic bound to "a" both times.
func TestApplyGenericPlaceholderRebindingMismatch(t *testing.T) {
	dupSig, _ := IntrinsicByLexeme(token.Dup)
	twoA := Signature{Kind: dupSig.Kind, Args: []Type{"a", "a"}, Rets: []Type{"a"}}
	if _, _, err := Apply(Stack{Int, Bool}, twoA); err == nil {
		t.Fatal("expected a type mismatch when the second 'a' does not match the bound type")
	}
}
