package coord

import (
	"github.com/sarchlab/duet/instr"
)

// DefaultMaxRounds bounds a run when no limit is configured.
const DefaultMaxRounds = 50_000_000

// Builder can create coordinators.
type Builder struct {
	program    instr.Program
	designated int
	identity   instr.Register
	maxRounds  int
	loopback   bool
}

// NewBuilder returns a builder that measures lane B, seeds register p and
// stops after DefaultMaxRounds rounds.
func NewBuilder() Builder {
	return Builder{
		designated: 1,
		identity:   'p',
		maxRounds:  DefaultMaxRounds,
	}
}

// WithProgram sets the program both lanes run.
func (b Builder) WithProgram(program instr.Program) Builder {
	b.program = program
	return b
}

// WithDesignatedLane sets the lane whose sends are counted by Result.Count.
func (b Builder) WithDesignatedLane(lane int) Builder {
	if lane != 0 && lane != 1 {
		panic("designated lane must be 0 or 1")
	}
	b.designated = lane
	return b
}

// WithIdentityRegister sets the register seeded with each lane's index.
func (b Builder) WithIdentityRegister(r instr.Register) Builder {
	if !r.Valid() {
		panic("identity register must be a-z")
	}
	b.identity = r
	return b
}

// WithMaxRounds sets the safety limit on rounds. 0 disables the limit.
func (b Builder) WithMaxRounds(n int) Builder {
	if n < 0 {
		panic("max rounds must not be negative")
	}
	b.maxRounds = n
	return b
}

// WithLoopback runs a single lane whose sends feed its own receives.
func (b Builder) WithLoopback(loopback bool) Builder {
	b.loopback = loopback
	return b
}

// Build creates a coordinator.
func (b Builder) Build(name string) *Coordinator {
	c := &Coordinator{
		name:       name,
		program:    b.program,
		designated: b.designated,
		identity:   b.identity,
		maxRounds:  b.maxRounds,
		loopback:   b.loopback,
	}

	if !c.identity.Valid() {
		c.identity = 'p'
	}

	if c.loopback {
		c.designated = 0
	}

	return c
}
