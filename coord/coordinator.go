// Package coord schedules two lanes in lockstep rounds, wires their channels
// and decides when a run is over.
//
// Each round steps lane A and then lane B. A value sent by A is visible to a
// receive by B in the same round. A run ends when every lane has halted, or
// when a whole round passes without any lane advancing: at that point every
// remaining lane waits on a channel that nobody will ever write to again.
package coord

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
)

// ErrRoundLimit is returned when a run exceeds its configured round limit.
var ErrRoundLimit = errors.New("round limit exceeded")

// HookPosLaneStep marks a lane step. The hook item is a LaneEvent.
var HookPosLaneStep = &sim.HookPos{Name: "Lane Step"}

// HookPosRound marks the end of a round. The hook item is a RoundEvent.
var HookPosRound = &sim.HookPos{Name: "Round"}

// Reason tells why a run ended.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonHalted
	ReasonDeadlock
	ReasonRoundLimit
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "running"
	case ReasonHalted:
		return "halted"
	case ReasonDeadlock:
		return "deadlock"
	case ReasonRoundLimit:
		return "round limit"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// LaneEvent describes one lane step.
type LaneEvent struct {
	Round   int
	Lane    int
	Outcome core.StepOutcome
}

// RoundEvent describes a finished round.
type RoundEvent struct {
	Round    int
	Progress bool
	Reason   Reason
}

// Result is what a run produced.
type Result struct {
	Rounds     int
	Sent       [2]int
	Designated int
	Reason     Reason
	Lanes      []core.LaneState
}

// Count returns the number of values sent by the designated lane.
func (r Result) Count() int {
	return r.Sent[r.Designated]
}

// A Coordinator owns a program and the run options. Every call to Run or
// Start creates fresh lanes and channels.
type Coordinator struct {
	sim.HookableBase

	name       string
	program    instr.Program
	designated int
	identity   instr.Register
	maxRounds  int
	loopback   bool
}

// Name returns the name of the coordinator.
func (c *Coordinator) Name() string {
	return c.name
}

// Program returns the program the lanes run.
func (c *Coordinator) Program() instr.Program {
	return c.program
}

// IdentityRegister returns the register seeded with each lane's index.
func (c *Coordinator) IdentityRegister() instr.Register {
	return c.identity
}

// Run executes rounds until the lanes halt or deadlock. When the round limit
// is hit, the partial result is returned together with an error wrapping
// ErrRoundLimit. Any other error aborts the run without a result.
func (c *Coordinator) Run() (Result, error) {
	s := c.Start()

	for {
		done, err := s.Round()
		if err != nil {
			if errors.Is(err, ErrRoundLimit) {
				return s.Result(), err
			}
			return Result{}, err
		}

		if done {
			return s.Result(), nil
		}
	}
}

type slot struct {
	lane *core.Lane
	in   *core.Channel
	out  *core.Channel
}

// Session is the state of one run.
type Session struct {
	c     *Coordinator
	slots []slot

	round  int
	sent   [2]int
	reason Reason
	err    error
}

// Start creates the lanes and channels of a new run.
func (c *Coordinator) Start() *Session {
	s := &Session{c: c}

	if c.loopback {
		ch := core.NewChannel(c.name + ".Loop")
		s.slots = []slot{{
			lane: c.buildLane(0),
			in:   ch,
			out:  ch,
		}}
	} else {
		aToB := core.NewChannel(c.name + ".AtoB")
		bToA := core.NewChannel(c.name + ".BtoA")
		s.slots = []slot{
			{lane: c.buildLane(0), in: bToA, out: aToB},
			{lane: c.buildLane(1), in: aToB, out: bToA},
		}
	}

	core.Trace("RunStart",
		"Coordinator", c.name,
		"Program", c.program.Name,
		"Instructions", c.program.Len(),
		"Lanes", len(s.slots),
	)

	return s
}

func (c *Coordinator) buildLane(id int) *core.Lane {
	return core.NewBuilder().
		WithID(id).
		WithIdentityRegister(c.identity).
		Build(fmt.Sprintf("%s.Lane%c", c.name, 'A'+id))
}

// Done reports whether the run is over.
func (s *Session) Done() bool {
	return s.reason != ReasonNone || s.err != nil
}

// Round runs one round. It returns true once the run is over.
func (s *Session) Round() (bool, error) {
	if s.err != nil {
		return true, s.err
	}

	if s.reason != ReasonNone {
		return true, nil
	}

	s.round++
	progress := false

	for i := range s.slots {
		sl := &s.slots[i]
		if sl.lane.Status() == core.Halted {
			continue
		}

		o, err := sl.lane.Step(s.c.program, sl.out, sl.in)
		if err != nil {
			s.err = fmt.Errorf("%s round %d: %w", sl.lane.Name(), s.round, err)
			core.Trace("RunAbort", "Coordinator", s.c.name, "Error", err.Error())
			return true, s.err
		}

		if o.Sent {
			s.sent[sl.lane.ID()]++
		}

		if o.Progressed() {
			progress = true
		}

		s.invokeHook(HookPosLaneStep, LaneEvent{
			Round:   s.round,
			Lane:    sl.lane.ID(),
			Outcome: o,
		})
	}

	switch {
	case s.allHalted():
		s.reason = ReasonHalted
	case !progress:
		s.reason = ReasonDeadlock
	case s.c.maxRounds > 0 && s.round >= s.c.maxRounds:
		s.reason = ReasonRoundLimit
		s.err = fmt.Errorf("%s after %d rounds: %w", s.c.name, s.round, ErrRoundLimit)
	}

	s.invokeHook(HookPosRound, RoundEvent{
		Round:    s.round,
		Progress: progress,
		Reason:   s.reason,
	})

	if s.reason != ReasonNone {
		core.Trace("RunEnd",
			"Coordinator", s.c.name,
			"Reason", s.reason.String(),
			"Rounds", s.round,
			"SentA", s.sent[0],
			"SentB", s.sent[1],
		)
	}

	return s.reason != ReasonNone, s.err
}

func (s *Session) allHalted() bool {
	for _, sl := range s.slots {
		if sl.lane.Status() != core.Halted {
			return false
		}
	}

	return true
}

func (s *Session) invokeHook(pos *sim.HookPos, item interface{}) {
	if s.c.NumHooks() == 0 {
		return
	}

	s.c.InvokeHook(sim.HookCtx{
		Domain: s.c,
		Pos:    pos,
		Item:   item,
	})
}

// Result returns what the run has produced so far.
func (s *Session) Result() Result {
	r := Result{
		Rounds:     s.round,
		Sent:       s.sent,
		Designated: s.c.designated,
		Reason:     s.reason,
	}

	for _, sl := range s.slots {
		r.Lanes = append(r.Lanes, sl.lane.State())
	}

	return r
}
