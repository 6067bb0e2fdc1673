// Package ast defines the AST produced by the fused parser/type-checker
// (spec §3): a closed set of function-body ops plus the two top-level
// declaration kinds.
package ast

import (
	"github.com/vsthijs/tack/pkg/token"
	"github.com/vsthijs/tack/pkg/types"
)

// Op is the closed sum of function-body operations. Exactly one of the
// op types below (PushInt, PushStr, IntrinsicOp, FunctionCall,
// Conditional) is stored, by value, in the Data field.
type Op struct {
	Data interface{}
	Pos  token.Position
}

type PushInt struct {
	Value int64
}

type PushStr struct {
	Value string
}

type IntrinsicOp struct {
	Kind types.IntrinsicKind
	// Sig is the resolved signature, kept so codegen doesn't need to
	// re-derive it from Kind.
	Sig types.Signature
}

type FunctionCall struct {
	Name string
	Args []types.Type
	Rets []types.Type
}

type Conditional struct {
	ThenOps []Op
	ElseOps []Op // empty means no else branch
}

// ConstDef is a top-level `const NAME <expr>` declaration.
type ConstDef struct {
	Name  string
	Value int64
	Pos   token.Position
}

// FuncDef is a top-level `func NAME TYPE* -> TYPE* (do OP* end | extern)`
// declaration.
type FuncDef struct {
	Name    string
	Args    []types.Type
	Rets    []types.Type
	Body    []Op
	Extern  bool
	Pos     token.Position
}

// Program is a fully parsed and type-checked translation unit: every
// top-level declaration, in source order (after includes have been
// inlined and de-duplicated).
type Program struct {
	Consts []ConstDef
	Funcs  []FuncDef
}
