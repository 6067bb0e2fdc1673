// Package types implements Tack's compile-time type stack: the primitive
// type set, the fixed intrinsic signature table, and the generic-placeholder
// binding rule used to symbolically execute a function body (spec §3, §4.3).
package types

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/vsthijs/tack/pkg/token"
)

// Type is a primitive type name. Any other identifier is accepted textually
// as a declared arg/ret type name at parse time (spec §4.3 Func), but only
// these four are meaningful to validate_stack and the backend.
type Type string

const (
	Int  Type = "int"
	Bool Type = "bool"
	Ptr  Type = "ptr"
	Long Type = "long"
	// Str is a syntactic alias for Ptr, resolved by Canonical.
	Str Type = "str"
)

// Canonical maps the "str" cast alias onto "ptr"; every other type name
// passes through unchanged.
func Canonical(t Type) Type {
	if t == Str {
		return Ptr
	}
	return t
}

// Stack is the ordered sequence of primitive type names that make up the
// compile-time type stack; the last element is the top.
type Stack []Type

// Equal reports whether two stacks have identical length and order-equal
// contents (used for I4/I5 branch-merge checks).
func Equal(a, b Stack) bool {
	return slices.Equal([]Type(a), []Type(b))
}

func (s Stack) Clone() Stack {
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

func (s Stack) String() string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = string(t)
	}
	return "[" + strings.Join(names, " ") + "]"
}

// IntrinsicKind identifies one of the fixed built-in stack operators.
type IntrinsicKind int

const (
	Add IntrinsicKind = iota
	Sub
	Mul
	Div
	Lt
	Gt
	Lte
	Gte
	Eq
	Neq
	BwAnd
	BwOr
	Lsh
	Rsh
	Not
	Neg
	Dup
	Drop
	Swap
	Rot
	Over
	CastInt
	CastBool
	CastPtr
	CastLong
	CastStr
)

// Args/Rets entries are either a primitive Type or a lowercase
// single-letter generic placeholder ("a", "b", "c").
type Signature struct {
	Kind IntrinsicKind
	Args []Type // declared order, top of stack is the LAST entry
	Rets []Type // declared order, top of stack is the LAST entry
}

// IsPlaceholder reports whether t is a generic type variable rather than a
// concrete primitive.
func IsPlaceholder(t Type) bool {
	return len(t) == 1 && t[0] >= 'a' && t[0] <= 'z'
}

// IntrinsicByLexeme resolves a token kind naming an intrinsic to its
// signature; the bool is false if kind is not one of the fixed intrinsics.
func IntrinsicByLexeme(kind token.Kind) (Signature, bool) {
	sig, ok := table[kind]
	return sig, ok
}

// Apply runs the generic-intrinsic validation rule (spec §4.3
// validate_stack) against stack for sig, returning the resulting stack and
// the concrete type bound to each entry of sig.Args, indexed the same way
// (Popped[i] is what got bound to sig.Args[i]).
//
// Popping order: sig.Args and sig.Rets are declared "top last", matching
// the intrinsic table in spec §3. Args are matched by walking the
// declaration in reverse — the last-declared (i.e. topmost) argument is
// popped first — and rets are pushed by walking the declaration forward,
// so the last-declared ret ends on top. This is the convention spec §9
// asks implementers to pick in order to make `swap` an actual swap; it
// matches spec §8 scenario 4.
func Apply(stack Stack, sig Signature) (result Stack, popped []Type, err error) {
	if len(stack) < len(sig.Args) {
		return nil, nil, fmt.Errorf("not enough values on the stack: expected %d for '%s', got %d",
			len(sig.Args), kindName(sig.Kind), len(stack))
	}

	bindings := make(map[Type]Type, len(sig.Args))
	cur := stack.Clone()
	popped = make([]Type, len(sig.Args))

	for i := len(sig.Args) - 1; i >= 0; i-- {
		spec := sig.Args[i]
		actual := cur[len(cur)-1]
		cur = cur[:len(cur)-1]

		expected := spec
		if IsPlaceholder(spec) {
			if bound, ok := bindings[spec]; ok {
				expected = bound
			} else {
				bindings[spec] = actual
				expected = actual
			}
		}
		if Canonical(expected) != Canonical(actual) {
			return nil, nil, fmt.Errorf("type mismatch for '%s': expected %s, got %s", kindName(sig.Kind), expected, actual)
		}
		popped[i] = actual
	}

	for _, r := range sig.Rets {
		t := r
		if IsPlaceholder(r) {
			bound, ok := bindings[r]
			if !ok {
				return nil, nil, fmt.Errorf("unbound generic placeholder '%s' in return of '%s'", r, kindName(sig.Kind))
			}
			t = bound
		}
		cur = append(cur, Canonical(t))
	}

	return cur, popped, nil
}

func kindName(k IntrinsicKind) string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "?"
}

var kindNames = map[IntrinsicKind]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	Lt: "<", Gt: ">", Lte: "<=", Gte: ">=", Eq: "=", Neq: "!=",
	BwAnd: "&", BwOr: "|", Lsh: "<<", Rsh: ">>",
	Not: "not", Neg: "neg",
	Dup: "dup", Drop: "drop", Swap: "swap", Rot: "rot", Over: "over",
	CastInt: "int", CastBool: "bool", CastPtr: "ptr", CastLong: "long", CastStr: "str",
}

// table is the authoritative fixed intrinsic table from spec §3.
var table = map[token.Kind]Signature{
	token.Plus:  {Add, []Type{Int, Int}, []Type{Int}},
	token.Minus: {Sub, []Type{Int, Int}, []Type{Int}},
	token.Star:  {Mul, []Type{Int, Int}, []Type{Int}},
	token.Slash: {Div, []Type{Int, Int}, []Type{Int}},

	token.Lt:  {Lt, []Type{Int, Int}, []Type{Bool}},
	token.Gt:  {Gt, []Type{Int, Int}, []Type{Bool}},
	token.Lte: {Lte, []Type{Int, Int}, []Type{Bool}},
	token.Gte: {Gte, []Type{Int, Int}, []Type{Bool}},
	token.Eq:  {Eq, []Type{Int, Int}, []Type{Bool}},
	token.Neq: {Neq, []Type{Int, Int}, []Type{Bool}},

	token.BwAnd: {BwAnd, []Type{Int, Int}, []Type{Int}},
	token.BwOr:  {BwOr, []Type{Int, Int}, []Type{Int}},
	token.Lsh:   {Lsh, []Type{Int, Int}, []Type{Int}},
	token.Rsh:   {Rsh, []Type{Int, Int}, []Type{Int}},

	token.Not: {Not, []Type{"a"}, []Type{"a"}},
	token.Neg: {Neg, []Type{Int}, []Type{Int}},

	token.Dup:  {Dup, []Type{"a"}, []Type{"a", "a"}},
	token.Drop: {Drop, []Type{"a"}, []Type{}},
	token.Swap: {Swap, []Type{"a", "b"}, []Type{"b", "a"}},
	token.Rot:  {Rot, []Type{"a", "b", "c"}, []Type{"b", "c", "a"}},
	token.Over: {Over, []Type{"a", "b"}, []Type{"a", "b", "a"}},

	token.Int:  {CastInt, []Type{"a"}, []Type{Int}},
	token.Bool: {CastBool, []Type{"a"}, []Type{Bool}},
	token.Ptr:  {CastPtr, []Type{"a"}, []Type{Ptr}},
	token.Long: {CastLong, []Type{"a"}, []Type{Long}},
	token.Str:  {CastStr, []Type{"a"}, []Type{Ptr}},
}
