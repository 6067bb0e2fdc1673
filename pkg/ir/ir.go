// Package ir models a lowered Tack program as QBE SSA values, instructions,
// basic blocks and functions (spec §4.4). It has no notion of source
// syntax; codegen is the only producer, and the QBE backend is the only
// consumer.
package ir

// Type is a QBE base type. Tack only ever emits w (word) and l (long).
type Type int

const (
	W Type = iota // 32-bit word: int, bool
	L             // 64-bit long: long, ptr
)

// Value is anything that can appear as an operand in QBE textual IR.
type Value interface {
	isValue()
}

type Const struct{ Value int64 }

// Temp is an SSA-named temporary, e.g. %s3.
type Temp struct {
	Name string
	Typ  Type
}

// Global references a QBE symbol, e.g. a function or string literal.
type Global struct{ Name string }

// BlockRef references a basic block by label, e.g. @b2.
type BlockRef struct{ Name string }

func (Const) isValue()    {}
func (Temp) isValue()     {}
func (Global) isValue()   {}
func (BlockRef) isValue() {}

// Op enumerates the QBE-level operations Tack's backend emits.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpShl
	OpShr
	OpCEq
	OpCNeq
	OpCSlt
	OpCSgt
	OpCSle
	OpCSge
	OpCopy // not emitted: casts retype the stack value in place instead
	OpCall
	OpJmp
	OpJnz
	OpPhi
	OpRet
	OpRetVoid
)

// Instruction is a single QBE line. Result is nil for instructions that
// produce no value (jumps, void calls, ret).
type Instruction struct {
	Op       Op
	Typ      Type   // result type
	Result   *Temp
	Args     []Value
	ArgTypes []Type // per-arg QBE type, used for call emission

	// PhiEdges holds (predecessor label, value) pairs, populated only for
	// OpPhi.
	PhiEdges []PhiEdge

	// Callee is the function symbol for OpCall.
	Callee string

	// Target is the destination label for OpJmp.
	Target *BlockRef
	// TrueLabel/FalseLabel are the two destinations for OpJnz; Args[0]
	// holds the condition value.
	TrueLabel, FalseLabel *BlockRef
}

type PhiEdge struct {
	Pred *BlockRef
	Val  Value
}

type BasicBlock struct {
	Label        *BlockRef
	Instructions []*Instruction
}

type Func struct {
	Name       string
	Params     []Param
	RetType    *Type // nil means the function returns nothing
	Blocks     []*BasicBlock
	Extern     bool
}

type Param struct {
	Val Value
	Typ Type
}

// Program is the whole lowered translation unit: every function plus the
// aggregated string pool, which codegen.Emit renders as the `data` prefix.
type Program struct {
	Funcs   []*Func
	Strings *StringPool
}

func NewProgram() *Program {
	return &Program{Strings: NewStringPool()}
}
