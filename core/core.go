// Package core implements a lane: one register-machine execution context
// that runs a shared program and talks to another lane through channels.
package core

import (
	"fmt"

	"github.com/sarchlab/duet/instr"
)

// Status is the scheduling state of a lane.
type Status int

const (
	Runnable Status = iota
	BlockedOnReceive
	Halted
)

func (s Status) String() string {
	switch s {
	case Runnable:
		return "Runnable"
	case BlockedOnReceive:
		return "BlockedOnReceive"
	case Halted:
		return "Halted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// OutcomeKind tells what a single step did.
type OutcomeKind int

const (
	// Advanced means the program counter moved. The lane may have halted as
	// a result; check Lane.Status.
	Advanced OutcomeKind = iota
	// Blocked means a receive found the inbound channel empty. Nothing
	// changed and the same instruction runs again next turn.
	Blocked
	// HaltedOutcome means the lane is halted and did nothing.
	HaltedOutcome
)

func (k OutcomeKind) String() string {
	switch k {
	case Advanced:
		return "Advanced"
	case Blocked:
		return "BlockedOnReceive"
	case HaltedOutcome:
		return "Halted"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// StepOutcome is the result of Lane.Step.
type StepOutcome struct {
	Kind OutcomeKind
	Inst instr.Inst
	PC   int64

	// Sent is set when the step executed a snd; Value is the sent value.
	Sent  bool
	Value int64

	// Received is set when the step completed a rcv.
	Received bool
}

// Progressed reports whether the step changed the lane.
func (o StepOutcome) Progressed() bool {
	return o.Kind == Advanced
}

// A Lane is one execution context: registers, a program counter and a
// blocking state. Two lanes built with different ids run the same program.
type Lane struct {
	name string
	id   int

	regs   RegisterFile
	pc     int64
	status Status

	sentCount int
	lastSent  int64
	hasSent   bool
	steps     int

	emu instEmulator
}

// Name returns the name of the lane.
func (l *Lane) Name() string {
	return l.name
}

// ID returns the lane index. It is also the value of the identity register.
func (l *Lane) ID() int {
	return l.id
}

// PC returns the program counter.
func (l *Lane) PC() int64 {
	return l.pc
}

// Status returns the scheduling state.
func (l *Lane) Status() Status {
	return l.status
}

// Registers gives read/write access to the register file.
func (l *Lane) Registers() *RegisterFile {
	return &l.regs
}

// SentCount returns how many values the lane sent.
func (l *Lane) SentCount() int {
	return l.sentCount
}

// LastSent returns the most recently sent value.
func (l *Lane) LastSent() (int64, bool) {
	return l.lastSent, l.hasSent
}

// Step fetches and executes the instruction at pc. Values are sent to out and
// received from in. A lane whose pc leaves the program halts and stays
// halted.
func (l *Lane) Step(prog instr.Program, out, in *Channel) (StepOutcome, error) {
	if l.status == Halted {
		return StepOutcome{Kind: HaltedOutcome, PC: l.pc}, nil
	}

	inst, ok := prog.At(l.pc)
	if !ok {
		l.status = Halted
		return StepOutcome{Kind: HaltedOutcome, PC: l.pc}, nil
	}

	outcome := StepOutcome{Kind: Advanced, Inst: inst, PC: l.pc}

	switch inst.Op {
	case instr.OpSnd:
		v := l.emu.readOperand(inst.Src, &l.regs)
		out.Push(v)

		l.lastSent = v
		l.hasSent = true
		l.sentCount++
		l.pc = addPC(l.pc, 1)

		outcome.Sent = true
		outcome.Value = v
	case instr.OpRcv:
		v, ok := in.Pop()
		if !ok {
			l.status = BlockedOnReceive
			outcome.Kind = Blocked
			return outcome, nil
		}

		l.emu.writeOperand(inst.Dst, v, &l.regs)
		l.pc = addPC(l.pc, 1)

		outcome.Received = true
		outcome.Value = v
	default:
		next, err := l.emu.runALU(inst, &l.regs, l.pc)
		if err != nil {
			return outcome, err
		}
		l.pc = next
	}

	l.steps++
	l.status = Runnable
	if _, ok := prog.At(l.pc); !ok {
		l.status = Halted
	}

	return outcome, nil
}

// LaneState is a snapshot of a lane for diagnostics.
type LaneState struct {
	Name      string
	ID        int
	PC        int64
	Status    Status
	Steps     int
	SentCount int
	LastSent  int64
	HasSent   bool
	Registers map[string]int64
}

// State returns a snapshot of the lane.
func (l *Lane) State() LaneState {
	return LaneState{
		Name:      l.name,
		ID:        l.id,
		PC:        l.pc,
		Status:    l.status,
		Steps:     l.steps,
		SentCount: l.sentCount,
		LastSent:  l.lastSent,
		HasSent:   l.hasSent,
		Registers: l.regs.Snapshot(),
	}
}
