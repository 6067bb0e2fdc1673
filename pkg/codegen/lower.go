// Package codegen lowers a type-checked ast.Program to QBE SSA IR (spec
// §4.4): per-function SSA name/block label allocation, intrinsic and call
// lowering, and the phi-insertion algorithm at conditional joins.
package codegen

import (
	"fmt"

	"github.com/vsthijs/tack/pkg/ast"
	"github.com/vsthijs/tack/pkg/ir"
	"github.com/vsthijs/tack/pkg/types"
)

// stackVal pairs a runtime SSA value with the IR-level type it currently
// carries; casts mutate the type half of this pair in place without
// emitting any instruction (spec §4.4 "retype the top SSA value in
// place").
type stackVal struct {
	val ir.Value
	typ ir.Type
}

// emitter holds one function's lowering state (spec §4.4 "Per-function
// state").
type emitter struct {
	prog      *ir.Program
	fn        *ir.Func
	curBlock  *ir.BasicBlock
	stack     []stackVal
	nextSSA   int
	nextBlock int
}

// Lower runs the whole backend over a type-checked program, producing the
// QBE IR model that Emit (in emit.go) renders to text. It is the
// entrypoint named `codegen.Lower` in the pipeline (driver calls this
// after parser.ParseProgram succeeds).
func Lower(prog *ast.Program) (*ir.Program, error) {
	out := ir.NewProgram()

	// Extern functions have no body to lower; codegen only needs to know
	// they exist as external call targets, which the parser's symbol
	// table already validated call sites against.
	for _, fd := range prog.Funcs {
		if fd.Extern {
			continue
		}
		fn, err := lowerFunc(out, fd)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", fd.Name, err)
		}
		out.Funcs = append(out.Funcs, fn)
	}
	return out, nil
}

func widthOf(t types.Type) ir.Type {
	switch types.Canonical(t) {
	case types.Long, types.Ptr:
		return ir.L
	default:
		return ir.W
	}
}

func lowerFunc(prog *ir.Program, fd ast.FuncDef) (*ir.Func, error) {
	fn := &ir.Func{Name: fd.Name}
	if len(fd.Rets) == 1 {
		t := widthOf(fd.Rets[0])
		fn.RetType = &t
	}

	e := &emitter{prog: prog, fn: fn}

	for _, argTy := range fd.Args {
		t := widthOf(argTy)
		tmp := e.newTemp(t)
		fn.Params = append(fn.Params, ir.Param{Val: *tmp, Typ: t})
		e.push(*tmp, t)
	}

	e.startBlock(e.newBlockLabel())

	if err := e.emitOps(fd.Body); err != nil {
		return nil, err
	}

	if len(fd.Rets) == 1 {
		top := e.pop()
		e.addInstr(&ir.Instruction{Op: ir.OpRet, Typ: top.typ, Args: []ir.Value{top.val}})
	} else {
		e.addInstr(&ir.Instruction{Op: ir.OpRetVoid})
	}

	return fn, nil
}

func (e *emitter) newTemp(t ir.Type) *ir.Temp {
	name := fmt.Sprintf("s%d", e.nextSSA)
	e.nextSSA++
	return &ir.Temp{Name: name, Typ: t}
}

func (e *emitter) newBlockLabel() *ir.BlockRef {
	name := fmt.Sprintf("b%d", e.nextBlock)
	e.nextBlock++
	return &ir.BlockRef{Name: name}
}

func (e *emitter) startBlock(label *ir.BlockRef) {
	b := &ir.BasicBlock{Label: label}
	e.fn.Blocks = append(e.fn.Blocks, b)
	e.curBlock = b
}

func (e *emitter) addInstr(instr *ir.Instruction) {
	e.curBlock.Instructions = append(e.curBlock.Instructions, instr)
}

func (e *emitter) push(v ir.Value, t ir.Type) { e.stack = append(e.stack, stackVal{val: v, typ: t}) }

func (e *emitter) pop() stackVal {
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return top
}

// popN pops n values, returning them top-first (result[0] was the
// topmost value).
func (e *emitter) popN(n int) []stackVal {
	out := make([]stackVal, n)
	for i := 0; i < n; i++ {
		out[i] = e.pop()
	}
	return out
}

func (e *emitter) snapshot() []stackVal {
	out := make([]stackVal, len(e.stack))
	copy(out, e.stack)
	return out
}

func (e *emitter) restore(s []stackVal) {
	e.stack = make([]stackVal, len(s))
	copy(e.stack, s)
}

func (e *emitter) emitOps(ops []ast.Op) error {
	for _, op := range ops {
		if err := e.emitOp(op); err != nil {
			return err
		}
	}
	return nil
}

func valuesEqual(a, b ir.Value) bool {
	switch av := a.(type) {
	case ir.Const:
		bv, ok := b.(ir.Const)
		return ok && av.Value == bv.Value
	case ir.Temp:
		bv, ok := b.(ir.Temp)
		return ok && av.Name == bv.Name
	case ir.Global:
		bv, ok := b.(ir.Global)
		return ok && av.Name == bv.Name
	case ir.BlockRef:
		bv, ok := b.(ir.BlockRef)
		return ok && av.Name == bv.Name
	default:
		return false
	}
}
