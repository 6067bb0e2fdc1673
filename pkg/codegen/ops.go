package codegen

import (
	"fmt"

	"github.com/vsthijs/tack/pkg/ast"
	"github.com/vsthijs/tack/pkg/ir"
	"github.com/vsthijs/tack/pkg/types"
)

func (e *emitter) emitOp(op ast.Op) error {
	switch data := op.Data.(type) {
	case ast.PushInt:
		e.push(ir.Const{Value: data.Value}, ir.W)
	case ast.PushStr:
		sym := e.prog.Strings.Intern(data.Value)
		e.push(ir.Global{Name: sym}, ir.L)
	case ast.IntrinsicOp:
		e.emitIntrinsic(data)
	case ast.FunctionCall:
		e.emitCall(data)
	case ast.Conditional:
		return e.emitConditional(data)
	default:
		return fmt.Errorf("codegen: unhandled op type %T", data)
	}
	return nil
}

var binOp = map[types.IntrinsicKind]ir.Op{
	types.Add:   ir.OpAdd,
	types.Sub:   ir.OpSub,
	types.Mul:   ir.OpMul,
	types.Div:   ir.OpDiv,
	types.BwAnd: ir.OpAnd,
	types.BwOr:  ir.OpOr,
}

var cmpOp = map[types.IntrinsicKind]ir.Op{
	types.Lt:  ir.OpCSlt,
	types.Gt:  ir.OpCSgt,
	types.Lte: ir.OpCSle,
	types.Gte: ir.OpCSge,
	types.Eq:  ir.OpCEq,
	types.Neq: ir.OpCNeq,
}

// emitIntrinsic implements the full spec §4.4 intrinsic lowering table.
func (e *emitter) emitIntrinsic(op ast.IntrinsicOp) {
	switch op.Kind {
	case types.Add, types.Sub, types.Mul, types.Div, types.BwAnd, types.BwOr:
		vals := e.popN(2)
		b, a := vals[0], vals[1] // b: top (second declared arg), a: deeper (first declared arg)
		res := e.newTemp(a.typ)
		e.addInstr(&ir.Instruction{Op: binOp[op.Kind], Typ: a.typ, Result: res, Args: []ir.Value{a.val, b.val}, ArgTypes: []ir.Type{a.typ, b.typ}})
		e.push(*res, a.typ)

	case types.Lt, types.Gt, types.Lte, types.Gte, types.Eq, types.Neq:
		vals := e.popN(2)
		b, a := vals[0], vals[1]
		res := e.newTemp(ir.W)
		e.addInstr(&ir.Instruction{Op: cmpOp[op.Kind], Typ: ir.W, Result: res, Args: []ir.Value{a.val, b.val}, ArgTypes: []ir.Type{a.typ, b.typ}})
		e.push(*res, ir.W)

	case types.Lsh, types.Rsh:
		// Operands are emitted base first, then shift amount: a (the
		// first-declared/deepest operand) is the value being shifted and b
		// (the second-declared/topmost one) is the shift amount, so
		// `x n <<` becomes `shl %x, %n`.
		vals := e.popN(2)
		b, a := vals[0], vals[1]
		qop := ir.OpShl
		if op.Kind == types.Rsh {
			qop = ir.OpShr
		}
		res := e.newTemp(a.typ)
		e.addInstr(&ir.Instruction{Op: qop, Typ: a.typ, Result: res, Args: []ir.Value{a.val, b.val}, ArgTypes: []ir.Type{a.typ, b.typ}})
		e.push(*res, a.typ)

	case types.Not:
		x := e.pop()
		res := e.newTemp(x.typ)
		e.addInstr(&ir.Instruction{Op: ir.OpCEq, Typ: x.typ, Result: res, Args: []ir.Value{x.val, ir.Const{Value: 0}}, ArgTypes: []ir.Type{x.typ, x.typ}})
		e.push(*res, x.typ)

	case types.Neg:
		x := e.pop()
		res := e.newTemp(x.typ)
		e.addInstr(&ir.Instruction{Op: ir.OpSub, Typ: x.typ, Result: res, Args: []ir.Value{ir.Const{Value: 0}, x.val}, ArgTypes: []ir.Type{x.typ, x.typ}})
		e.push(*res, x.typ)

	case types.Dup:
		top := e.stack[len(e.stack)-1]
		e.push(top.val, top.typ)

	case types.Drop:
		e.pop()

	case types.Swap:
		vals := e.popN(2)
		top, second := vals[0], vals[1]
		e.push(top.val, top.typ)
		e.push(second.val, second.typ)

	case types.Rot:
		vals := e.popN(3)
		top, mid, bottom := vals[0], vals[1], vals[2]
		e.push(mid.val, mid.typ)
		e.push(top.val, top.typ)
		e.push(bottom.val, bottom.typ)

	case types.Over:
		vals := e.popN(2)
		top, second := vals[0], vals[1]
		e.push(second.val, second.typ)
		e.push(top.val, top.typ)
		e.push(second.val, second.typ)

	case types.CastInt, types.CastBool, types.CastPtr, types.CastLong, types.CastStr:
		top := e.pop()
		target := op.Sig.Rets[0]
		e.push(top.val, widthOf(target))

	default:
		panic(fmt.Sprintf("codegen: unhandled intrinsic kind %v", op.Kind))
	}
}

// emitCall lowers a Tack-to-Tack (or Tack-to-extern) function call (spec
// §4.4 Function call).
func (e *emitter) emitCall(call ast.FunctionCall) {
	poppedTopFirst := e.popN(len(call.Args))
	args := make([]ir.Value, len(poppedTopFirst))
	argTypes := make([]ir.Type, len(poppedTopFirst))
	for i, v := range poppedTopFirst {
		// Reverse to declaration order (deepest/first-declared first),
		// the order a call's argument list is written in.
		args[len(poppedTopFirst)-1-i] = v.val
		argTypes[len(poppedTopFirst)-1-i] = v.typ
	}

	if len(call.Rets) == 1 {
		resTy := widthOf(call.Rets[0])
		res := e.newTemp(resTy)
		e.addInstr(&ir.Instruction{Op: ir.OpCall, Typ: resTy, Result: res, Args: args, ArgTypes: argTypes, Callee: call.Name})
		e.push(*res, resTy)
		return
	}
	e.addInstr(&ir.Instruction{Op: ir.OpCall, Args: args, ArgTypes: argTypes, Callee: call.Name})
}

// emitConditional implements the phi-insertion algorithm of spec §4.4
// Conditional lowering, step by step.
func (e *emitter) emitConditional(cond ast.Conditional) error {
	c := e.pop()

	labelT := e.newBlockLabel()
	labelF := e.newBlockLabel()
	labelJ := e.newBlockLabel()
	e.addInstr(&ir.Instruction{Op: ir.OpJnz, Args: []ir.Value{c.val}, TrueLabel: labelT, FalseLabel: labelF})

	s0 := e.snapshot()

	e.startBlock(labelT)
	if err := e.emitOps(cond.ThenOps); err != nil {
		return err
	}
	thenPred := e.curBlock.Label
	e.addInstr(&ir.Instruction{Op: ir.OpJmp, Target: labelJ})
	st := e.snapshot()

	e.restore(s0)
	e.startBlock(labelF)
	if err := e.emitOps(cond.ElseOps); err != nil {
		return err
	}
	elsePred := e.curBlock.Label
	e.addInstr(&ir.Instruction{Op: ir.OpJmp, Target: labelJ})
	sf := e.snapshot()

	e.startBlock(labelJ)
	merged := make([]stackVal, len(st))
	for i := range st {
		if valuesEqual(st[i].val, sf[i].val) {
			merged[i] = st[i]
			continue
		}
		p := e.newTemp(st[i].typ)
		e.addInstr(&ir.Instruction{
			Op: ir.OpPhi, Typ: st[i].typ, Result: p,
			PhiEdges: []ir.PhiEdge{{Pred: thenPred, Val: st[i].val}, {Pred: elsePred, Val: sf[i].val}},
		})
		merged[i] = stackVal{val: *p, typ: st[i].typ}
	}
	e.stack = merged
	return nil
}
