package core

import (
	"fmt"
	"math"

	"github.com/sarchlab/duet/instr"
)

// aluFunc executes one non-I/O instruction and returns the next pc.
type aluFunc func(inst instr.Inst, regs *RegisterFile, pc int64) (int64, error)

type instEmulator struct {
	aluFuncs map[instr.Opcode]aluFunc
}

func newInstEmulator() instEmulator {
	i := instEmulator{}
	i.aluFuncs = map[instr.Opcode]aluFunc{
		instr.OpSet: i.runSet,
		instr.OpAdd: i.runAdd,
		instr.OpMul: i.runMul,
		instr.OpMod: i.runMod,
		instr.OpJgz: i.runJgz,
	}

	return i
}

var defaultEmulator = newInstEmulator()

// RunALU executes a set, add, mul, mod or jgz instruction against regs and
// returns the next program counter. snd and rcv depend on the execution mode
// and are handled by the caller.
func RunALU(inst instr.Inst, regs *RegisterFile, pc int64) (int64, error) {
	return defaultEmulator.runALU(inst, regs, pc)
}

func (i instEmulator) runALU(
	inst instr.Inst,
	regs *RegisterFile,
	pc int64,
) (int64, error) {
	f, ok := i.aluFuncs[inst.Op]
	if !ok {
		return pc, fmt.Errorf("instruction '%s' at pc %d is not an ALU instruction", inst, pc)
	}

	return f(inst, regs, pc)
}

func (i instEmulator) readOperand(o instr.Operand, regs *RegisterFile) int64 {
	if o.IsLiteral() {
		return o.Value()
	}

	return regs.Get(o.Register())
}

func (i instEmulator) writeOperand(r instr.Register, v int64, regs *RegisterFile) {
	regs.Set(r, v)
}

func (i instEmulator) runSet(inst instr.Inst, regs *RegisterFile, pc int64) (int64, error) {
	i.writeOperand(inst.Dst, i.readOperand(inst.Src, regs), regs)
	return addPC(pc, 1), nil
}

func (i instEmulator) runAdd(inst instr.Inst, regs *RegisterFile, pc int64) (int64, error) {
	i.writeOperand(inst.Dst, regs.Get(inst.Dst)+i.readOperand(inst.Src, regs), regs)
	return addPC(pc, 1), nil
}

func (i instEmulator) runMul(inst instr.Inst, regs *RegisterFile, pc int64) (int64, error) {
	i.writeOperand(inst.Dst, regs.Get(inst.Dst)*i.readOperand(inst.Src, regs), regs)
	return addPC(pc, 1), nil
}

func (i instEmulator) runMod(inst instr.Inst, regs *RegisterFile, pc int64) (int64, error) {
	dividend := regs.Get(inst.Dst)
	divisor := i.readOperand(inst.Src, regs)

	if divisor == 0 {
		return pc, &ArithmeticError{
			Op:       inst.Op,
			PC:       pc,
			Operands: [2]int64{dividend, divisor},
		}
	}

	i.writeOperand(inst.Dst, dividend%divisor, regs)

	return addPC(pc, 1), nil
}

func (i instEmulator) runJgz(inst instr.Inst, regs *RegisterFile, pc int64) (int64, error) {
	if i.readOperand(inst.Cond, regs) > 0 {
		return addPC(pc, i.readOperand(inst.Offset, regs)), nil
	}

	return addPC(pc, 1), nil
}

// addPC adds delta to pc, saturating at the int64 limits. Any saturated value
// is far outside every program.
func addPC(pc, delta int64) int64 {
	if delta > 0 && pc > math.MaxInt64-delta {
		return math.MaxInt64
	}

	if delta < 0 && pc < math.MinInt64-delta {
		return math.MinInt64
	}

	return pc + delta
}
