package core

import (
	"fmt"

	"github.com/sarchlab/duet/instr"
)

// ArithmeticError is returned when an operation has no defined result, such
// as a modulo by zero. It aborts the run.
type ArithmeticError struct {
	Op       instr.Opcode
	PC       int64
	Operands [2]int64
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s by zero at pc %d (operands %d, %d)",
		e.Op, e.PC, e.Operands[0], e.Operands[1])
}
