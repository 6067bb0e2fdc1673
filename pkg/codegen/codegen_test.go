package codegen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vsthijs/tack/internal/testutil"
	"github.com/vsthijs/tack/pkg/ast"
	"github.com/vsthijs/tack/pkg/token"
	"github.com/vsthijs/tack/pkg/types"
)

func addSig() types.Signature {
	sig, _ := types.IntrinsicByLexeme(token.Plus)
	return sig
}

func TestLowerAndEmitSimpleFunction(t *testing.T) {
	prog := &ast.Program{
		Funcs: []ast.FuncDef{{
			Name: "add",
			Args: []types.Type{types.Int, types.Int},
			Rets: []types.Type{types.Int},
			Body: []ast.Op{{Data: ast.IntrinsicOp{Kind: types.Add, Sig: addSig()}}},
		}},
	}

	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	got := Emit(lowered)
	want := "\nexport function w $add(w %s0, w %s1) {\n@b0\n\t%s2 =w add %s0, %s1\n\tret %s2\n}\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emit mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerAndEmitSimpleFunctionGolden(t *testing.T) {
	prog := &ast.Program{
		Funcs: []ast.FuncDef{{
			Name: "add",
			Args: []types.Type{types.Int, types.Int},
			Rets: []types.Type{types.Int},
			Body: []ast.Op{{Data: ast.IntrinsicOp{Kind: types.Add, Sig: addSig()}}},
		}},
	}
	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	testutil.GoldenIR(t, "testdata/add.ssa.golden", Emit(lowered))
}

func TestLowerSkipsExternFunctions(t *testing.T) {
	prog := &ast.Program{
		Funcs: []ast.FuncDef{{Name: "puts", Args: []types.Type{types.Ptr}, Extern: true}},
	}
	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if len(lowered.Funcs) != 0 {
		t.Fatalf("expected extern functions to produce no IR function, got %d", len(lowered.Funcs))
	}
}

func TestLowerStringLiteralInternsIntoDataPool(t *testing.T) {
	prog := &ast.Program{
		Funcs: []ast.FuncDef{{
			Name: "main",
			Body: []ast.Op{{Data: ast.PushStr{Value: "hi"}}},
		}},
	}
	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := Emit(lowered)
	if !strings.Contains(out, `data $`) || !strings.Contains(out, `"hi"`) {
		t.Errorf("expected a data section for the interned string, got:\n%s", out)
	}
}

func TestLowerConditionalWithoutElseInsertsNoPhiWhenUnchanged(t *testing.T) {
	// An empty `if ... end`: neither branch touches the residual stack
	// entry below the popped bool, so no phi should be needed for it.
	prog := &ast.Program{
		Funcs: []ast.FuncDef{{
			Name: "f",
			Args: []types.Type{types.Int, types.Bool},
			Rets: []types.Type{types.Int},
			Body: []ast.Op{{Data: ast.Conditional{}}},
		}},
	}
	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := Emit(lowered)
	if strings.Contains(out, "phi") {
		t.Errorf("expected no phi when both branches leave the value untouched, got:\n%s", out)
	}
}

func TestLowerConditionalWithDivergentValuesInsertsPhi(t *testing.T) {
	one := ast.Op{Data: ast.PushInt{Value: 1}}
	two := ast.Op{Data: ast.PushInt{Value: 2}}
	dropSig, _ := types.IntrinsicByLexeme(token.Drop)
	drop := ast.Op{Data: ast.IntrinsicOp{Kind: types.Drop, Sig: dropSig}}

	prog := &ast.Program{
		Funcs: []ast.FuncDef{{
			Name: "f",
			Args: []types.Type{types.Bool},
			Rets: []types.Type{types.Int},
			Body: []ast.Op{{Data: ast.Conditional{
				ThenOps: []ast.Op{one},
				ElseOps: []ast.Op{two},
			}}, drop, one},
		}},
	}
	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := Emit(lowered)
	if !strings.Contains(out, "phi") {
		t.Errorf("expected a phi merging divergent then/else values, got:\n%s", out)
	}
}

func TestLowerCallReversesArgsBackToDeclaredOrder(t *testing.T) {
	prog := &ast.Program{
		Funcs: []ast.FuncDef{{
			Name: "main",
			Rets: []types.Type{types.Int},
			Body: []ast.Op{
				{Data: ast.PushInt{Value: 1}},
				{Data: ast.PushInt{Value: 2}},
				{Data: ast.FunctionCall{Name: "sub", Args: []types.Type{types.Int, types.Int}, Rets: []types.Type{types.Int}}},
			},
		}},
	}
	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := Emit(lowered)
	if !strings.Contains(out, "call $sub(w 1, w 2)") {
		t.Errorf("expected call args in declared order 1, 2, got:\n%s", out)
	}
}

func TestLshEmitsBaseThenShiftAmount(t *testing.T) {
	lshSig, _ := types.IntrinsicByLexeme(token.Lsh)
	prog := &ast.Program{
		Funcs: []ast.FuncDef{{
			Name: "f",
			Args: []types.Type{types.Int, types.Int},
			Rets: []types.Type{types.Int},
			Body: []ast.Op{{Data: ast.IntrinsicOp{Kind: types.Lsh, Sig: lshSig}}},
		}},
	}
	lowered, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	out := Emit(lowered)
	// s0 is the base (first-declared arg), s1 the shift amount (topmost).
	// The operands are emitted base first, then shift amount.
	if !strings.Contains(out, "shl %s0, %s1") {
		t.Errorf("expected shl operands in base, shift-amount order, got:\n%s", out)
	}
}
