package core

import "github.com/sarchlab/duet/instr"

// RegisterFile holds one signed 64-bit value per register name. Registers
// that were never written read as 0.
type RegisterFile struct {
	regs [instr.NumRegisters]int64
}

// Get returns the value of r, or 0 if r was never written.
func (f *RegisterFile) Get(r instr.Register) int64 {
	if !r.Valid() {
		return 0
	}

	return f.regs[r.Index()]
}

// Set writes v into r. Names outside a-z are ignored; the decoder never
// produces them.
func (f *RegisterFile) Set(r instr.Register, v int64) {
	if !r.Valid() {
		return
	}

	f.regs[r.Index()] = v
}

// Snapshot returns the non-zero registers keyed by name.
func (f *RegisterFile) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	for i, v := range f.regs {
		if v != 0 {
			out[instr.Register('a'+i).String()] = v
		}
	}

	return out
}
