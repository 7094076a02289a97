package core

import (
	"fmt"

	"github.com/sarchlab/duet/instr"
)

// Builder can create new lanes.
type Builder struct {
	id       int
	identity instr.Register
}

// NewBuilder returns a builder for lane 0 with identity register p.
func NewBuilder() Builder {
	return Builder{
		identity: 'p',
	}
}

// WithID sets the lane index. The identity register is seeded with it.
func (b Builder) WithID(id int) Builder {
	if id < 0 {
		panic("lane id must not be negative")
	}
	b.id = id
	return b
}

// WithIdentityRegister sets the register that holds the lane index.
func (b Builder) WithIdentityRegister(r instr.Register) Builder {
	if !r.Valid() {
		panic(fmt.Sprintf("invalid identity register %q", byte(r)))
	}
	b.identity = r
	return b
}

// Build creates a lane.
func (b Builder) Build(name string) *Lane {
	l := &Lane{
		name: name,
		id:   b.id,
		emu:  defaultEmulator,
	}

	identity := b.identity
	if !identity.Valid() {
		identity = 'p'
	}
	l.regs.Set(identity, int64(b.id))

	return l
}
