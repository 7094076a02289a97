package instr

import (
	"fmt"
	"strconv"
)

// NumRegisters is the size of the register name space, one slot per lowercase
// letter.
const NumRegisters = 26

// Register names a register slot. Valid names are 'a' through 'z'.
type Register byte

// ParseRegister converts a one-letter name into a Register.
func ParseRegister(s string) (Register, error) {
	if len(s) != 1 || s[0] < 'a' || s[0] > 'z' {
		return 0, fmt.Errorf("%q is not a register", s)
	}

	return Register(s[0]), nil
}

// Index returns the slot index of the register in a register file.
func (r Register) Index() int {
	return int(r - 'a')
}

// Valid reports whether the register is in the a-z name space.
func (r Register) Valid() bool {
	return r >= 'a' && r <= 'z'
}

func (r Register) String() string {
	return string(rune(r))
}

type operandKind uint8

const (
	kindLiteral operandKind = iota
	kindRegister
)

// Operand is a value reference, either a literal integer or a register.
type Operand struct {
	kind  operandKind
	value int64
	reg   Register
}

// Imm creates a literal operand.
func Imm(v int64) Operand {
	return Operand{kind: kindLiteral, value: v}
}

// Reg creates an operand that reads a register.
func Reg(r Register) Operand {
	return Operand{kind: kindRegister, reg: r}
}

// ParseOperand accepts either an integer or a register name. Integers win, so
// "-1" is a literal and "a" is a register.
func ParseOperand(s string) (Operand, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Imm(v), nil
	}

	r, err := ParseRegister(s)
	if err != nil {
		return Operand{}, fmt.Errorf("%q is neither an integer nor a register", s)
	}

	return Reg(r), nil
}

// IsLiteral reports whether the operand is a literal integer.
func (o Operand) IsLiteral() bool {
	return o.kind == kindLiteral
}

// Value returns the literal value. It is 0 for register operands.
func (o Operand) Value() int64 {
	return o.value
}

// Register returns the referenced register. It is 0 for literal operands.
func (o Operand) Register() Register {
	return o.reg
}

func (o Operand) String() string {
	if o.kind == kindRegister {
		return o.reg.String()
	}

	return strconv.FormatInt(o.value, 10)
}
