package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsthijs/tack/pkg/ir"
)

// Emit renders a lowered program as QBE textual SSA IR (spec §4.4, §6 "IR
// output"): a prefix of `data` string declarations followed by one
// `export function` block per Tack function.
func Emit(prog *ir.Program) string {
	var out strings.Builder

	for _, s := range prog.Strings.Entries() {
		fmt.Fprintf(&out, "data $%s = { b %s, b 0 }\n", s.Symbol, strconv.Quote(s.Literal))
	}

	for _, fn := range prog.Funcs {
		emitFunc(&out, fn)
	}
	return out.String()
}

func typeName(t ir.Type) string {
	if t == ir.L {
		return "l"
	}
	return "w"
}

func formatValue(v ir.Value) string {
	switch val := v.(type) {
	case ir.Const:
		return strconv.FormatInt(val.Value, 10)
	case ir.Temp:
		return "%" + val.Name
	case ir.Global:
		return "$" + val.Name
	case ir.BlockRef:
		return "@" + val.Name
	default:
		return ""
	}
}

func emitFunc(out *strings.Builder, fn *ir.Func) {
	retStr := ""
	if fn.RetType != nil {
		retStr = " " + typeName(*fn.RetType)
	}
	fmt.Fprintf(out, "\nexport function%s $%s(", retStr, fn.Name)
	for i, p := range fn.Params {
		fmt.Fprintf(out, "%s %s", typeName(p.Typ), formatValue(p.Val))
		if i < len(fn.Params)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(") {\n")
	for _, b := range fn.Blocks {
		emitBlock(out, b)
	}
	out.WriteString("}\n")
}

func emitBlock(out *strings.Builder, b *ir.BasicBlock) {
	fmt.Fprintf(out, "@%s\n", b.Label.Name)
	for _, instr := range b.Instructions {
		emitInstr(out, instr)
	}
}

var arithMnemonic = map[ir.Op]string{
	ir.OpAdd: "add", ir.OpSub: "sub", ir.OpMul: "mul", ir.OpDiv: "div",
	ir.OpAnd: "and", ir.OpOr: "or", ir.OpShl: "shl", ir.OpShr: "shr",
}

var cmpMnemonic = map[ir.Op]string{
	ir.OpCEq: "ceq", ir.OpCNeq: "cne",
	ir.OpCSlt: "cslt", ir.OpCSgt: "csgt", ir.OpCSle: "csle", ir.OpCSge: "csge",
}

func emitInstr(out *strings.Builder, instr *ir.Instruction) {
	switch instr.Op {
	case ir.OpJmp:
		fmt.Fprintf(out, "\tjmp %s\n", formatValue(*instr.Target))
		return
	case ir.OpJnz:
		fmt.Fprintf(out, "\tjnz %s, %s, %s\n", formatValue(instr.Args[0]), formatValue(*instr.TrueLabel), formatValue(*instr.FalseLabel))
		return
	case ir.OpRet:
		fmt.Fprintf(out, "\tret %s\n", formatValue(instr.Args[0]))
		return
	case ir.OpRetVoid:
		out.WriteString("\tret\n")
		return
	case ir.OpPhi:
		fmt.Fprintf(out, "\t%s =%s phi", formatValue(*instr.Result), typeName(instr.Typ))
		for i, edge := range instr.PhiEdges {
			fmt.Fprintf(out, " %s %s", formatValue(*edge.Pred), formatValue(edge.Val))
			if i < len(instr.PhiEdges)-1 {
				out.WriteString(",")
			}
		}
		out.WriteString("\n")
		return
	case ir.OpCall:
		emitCall(out, instr)
		return
	}

	var mnem string
	if m, ok := arithMnemonic[instr.Op]; ok {
		mnem = m
	} else if m, ok := cmpMnemonic[instr.Op]; ok {
		operandTy := instr.Typ
		if len(instr.ArgTypes) > 0 {
			operandTy = instr.ArgTypes[0]
		}
		mnem = m + typeName(operandTy)
	}
	fmt.Fprintf(out, "\t%s =%s %s %s, %s\n",
		formatValue(*instr.Result), typeName(instr.Typ), mnem, formatValue(instr.Args[0]), formatValue(instr.Args[1]))
}

func emitCall(out *strings.Builder, instr *ir.Instruction) {
	if instr.Result != nil {
		fmt.Fprintf(out, "\t%s =%s call $%s(", formatValue(*instr.Result), typeName(instr.Typ), instr.Callee)
	} else {
		fmt.Fprintf(out, "\tcall $%s(", instr.Callee)
	}
	for i, arg := range instr.Args {
		fmt.Fprintf(out, "%s %s", typeName(instr.ArgTypes[i]), formatValue(arg))
		if i < len(instr.Args)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(")\n")
}
