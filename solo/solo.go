// Package solo runs a program on a single lane in "sound" mode: snd plays a
// value, and rcv recovers the last played value unless its register is zero,
// in which case it does nothing. The run ends at the first recovery.
//
// This mode never blocks and has no channels. It shares the arithmetic and
// jump semantics of core.
package solo

import (
	"errors"
	"fmt"

	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
)

// ErrStepLimit is returned when a run exceeds its step limit.
var ErrStepLimit = errors.New("step limit exceeded")

// Result is the outcome of a solo run.
type Result struct {
	// Recovered is the first recovered value. It is only meaningful when OK
	// is true.
	Recovered int64
	OK        bool
	Steps     int
	PC        int64
}

// Machine is a single lane in sound mode.
type Machine struct {
	program  instr.Program
	maxSteps int

	regs    core.RegisterFile
	pc      int64
	playing int64
	played  bool
	steps   int
}

// New creates a machine. maxSteps of 0 disables the step limit.
func New(program instr.Program, maxSteps int) *Machine {
	return &Machine{
		program:  program,
		maxSteps: maxSteps,
	}
}

// Registers gives access to the register file.
func (m *Machine) Registers() *core.RegisterFile {
	return &m.regs
}

// Run executes until the first recovery or until the program counter leaves
// the program.
func (m *Machine) Run() (Result, error) {
	for {
		inst, ok := m.program.At(m.pc)
		if !ok {
			return m.result(0, false), nil
		}

		if m.maxSteps > 0 && m.steps >= m.maxSteps {
			return m.result(0, false), fmt.Errorf("solo after %d steps: %w", m.steps, ErrStepLimit)
		}

		m.steps++

		switch inst.Op {
		case instr.OpSnd:
			m.playing = m.read(inst.Src)
			m.played = true
			m.pc++
		case instr.OpRcv:
			m.pc++
			if m.regs.Get(inst.Dst) != 0 && m.played {
				core.Trace("Recover", "PC", m.pc-1, "Value", m.playing, "Steps", m.steps)
				return m.result(m.playing, true), nil
			}
		default:
			next, err := core.RunALU(inst, &m.regs, m.pc)
			if err != nil {
				return Result{}, err
			}
			m.pc = next
		}
	}
}

func (m *Machine) read(o instr.Operand) int64 {
	if o.IsLiteral() {
		return o.Value()
	}

	return m.regs.Get(o.Register())
}

func (m *Machine) result(v int64, ok bool) Result {
	return Result{
		Recovered: v,
		OK:        ok,
		Steps:     m.steps,
		PC:        m.pc,
	}
}

// Run is a shortcut for New(program, maxSteps).Run().
func Run(program instr.Program, maxSteps int) (Result, error) {
	return New(program, maxSteps).Run()
}
