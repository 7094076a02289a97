// Package instr defines the instruction set shared by every lane: registers,
// operands, opcodes, and immutable programs.
package instr

import "fmt"

// Opcode identifies an operation.
type Opcode uint8

const (
	OpSet Opcode = iota
	OpAdd
	OpMul
	OpMod
	OpJgz
	OpSnd
	OpRcv
)

var opcodeNames = [...]string{
	OpSet: "set",
	OpAdd: "add",
	OpMul: "mul",
	OpMod: "mod",
	OpJgz: "jgz",
	OpSnd: "snd",
	OpRcv: "rcv",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}

	return fmt.Sprintf("op(%d)", uint8(o))
}

// LookupOpcode returns the opcode with the given mnemonic.
func LookupOpcode(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name {
			return Opcode(op), true
		}
	}

	return 0, false
}

// Inst is a decoded instruction. Which fields are meaningful depends on Op:
//
//	set/add/mul/mod  Dst, Src
//	jgz              Cond, Offset
//	snd              Src
//	rcv              Dst
type Inst struct {
	Op     Opcode
	Dst    Register
	Src    Operand
	Cond   Operand
	Offset Operand
}

// Set creates `set dst src`.
func Set(dst Register, src Operand) Inst {
	return Inst{Op: OpSet, Dst: dst, Src: src}
}

// Add creates `add dst src`.
func Add(dst Register, src Operand) Inst {
	return Inst{Op: OpAdd, Dst: dst, Src: src}
}

// Mul creates `mul dst src`.
func Mul(dst Register, src Operand) Inst {
	return Inst{Op: OpMul, Dst: dst, Src: src}
}

// Mod creates `mod dst src`.
func Mod(dst Register, src Operand) Inst {
	return Inst{Op: OpMod, Dst: dst, Src: src}
}

// Jgz creates `jgz cond offset`.
func Jgz(cond, offset Operand) Inst {
	return Inst{Op: OpJgz, Cond: cond, Offset: offset}
}

// Snd creates `snd src`.
func Snd(src Operand) Inst {
	return Inst{Op: OpSnd, Src: src}
}

// Rcv creates `rcv dst`.
func Rcv(dst Register) Inst {
	return Inst{Op: OpRcv, Dst: dst}
}

// Reads returns the operands the instruction reads.
func (i Inst) Reads() []Operand {
	switch i.Op {
	case OpSet, OpSnd:
		return []Operand{i.Src}
	case OpAdd, OpMul, OpMod:
		return []Operand{Reg(i.Dst), i.Src}
	case OpJgz:
		return []Operand{i.Cond, i.Offset}
	default:
		return nil
	}
}

func (i Inst) String() string {
	switch i.Op {
	case OpSet, OpAdd, OpMul, OpMod:
		return fmt.Sprintf("%s %s %s", i.Op, i.Dst, i.Src)
	case OpJgz:
		return fmt.Sprintf("%s %s %s", i.Op, i.Cond, i.Offset)
	case OpSnd:
		return fmt.Sprintf("%s %s", i.Op, i.Src)
	case OpRcv:
		return fmt.Sprintf("%s %s", i.Op, i.Dst)
	default:
		return i.Op.String()
	}
}

// Program is an ordered, 0-indexed instruction sequence. Lanes only read it.
type Program struct {
	Name  string
	insts []Inst
}

// NewProgram copies insts into a new program.
func NewProgram(name string, insts ...Inst) Program {
	p := Program{Name: name, insts: make([]Inst, len(insts))}
	copy(p.insts, insts)

	return p
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p.insts)
}

// At returns the instruction at pc, or false when pc is outside [0, Len()).
func (p Program) At(pc int64) (Inst, bool) {
	if pc < 0 || pc >= int64(len(p.insts)) {
		return Inst{}, false
	}

	return p.insts[pc], true
}

// Insts returns a copy of the instructions.
func (p Program) Insts() []Inst {
	out := make([]Inst, len(p.insts))
	copy(out, p.insts)

	return out
}
