package verify

import (
	"fmt"

	"github.com/sarchlab/duet/instr"
)

// DefaultIdentityRegister is the register lanes are seeded through unless the
// coordinator says otherwise.
const DefaultIdentityRegister instr.Register = 'p'

// RunLint performs static checks on a program whose lanes are identified
// through DefaultIdentityRegister.
func RunLint(program instr.Program) []Issue {
	return RunLintWithIdentity(program, DefaultIdentityRegister)
}

// RunLintWithIdentity performs static checks on a program. Reads of the
// identity register are never reported as uninitialized.
func RunLintWithIdentity(program instr.Program, identity instr.Register) []Issue {
	var issues []Issue

	insts := program.Insts()
	n := int64(len(insts))

	written := make(map[instr.Register]bool)
	for _, inst := range insts {
		if writesRegister(inst.Op) {
			written[inst.Dst] = true
		}
	}

	reported := make(map[instr.Register]bool)
	sends, receives := false, false

	for i, inst := range insts {
		pc := int64(i)

		switch inst.Op {
		case instr.OpMod:
			if inst.Src.IsLiteral() && inst.Src.Value() == 0 {
				issues = append(issues, Issue{
					Type:     IssueArith,
					Severity: SeverityError,
					PC:       pc,
					Message:  fmt.Sprintf("pc %d: %s divides by literal zero", pc, inst),
				})
			}
		case instr.OpJgz:
			issues = append(issues, checkJump(inst, pc, n)...)
		case instr.OpSnd:
			sends = true
		case instr.OpRcv:
			receives = true
		}

		for _, op := range inst.Reads() {
			if op.IsLiteral() {
				continue
			}

			r := op.Register()
			if r == identity || written[r] || reported[r] {
				continue
			}

			reported[r] = true
			issues = append(issues, Issue{
				Type:     IssueData,
				Severity: SeverityInfo,
				PC:       pc,
				Message:  fmt.Sprintf("pc %d: register %s is read but never written, it is always 0", pc, r),
				Details:  map[string]interface{}{"register": r.String()},
			})
		}
	}

	switch {
	case sends && !receives:
		issues = append(issues, Issue{
			Type:     IssueComm,
			Severity: SeverityWarning,
			PC:       -1,
			Message:  "program sends but never receives, sent values are never consumed",
		})
	case receives && !sends:
		issues = append(issues, Issue{
			Type:     IssueComm,
			Severity: SeverityWarning,
			PC:       -1,
			Message:  "program receives but never sends, every receive blocks forever",
		})
	}

	return issues
}

func checkJump(inst instr.Inst, pc, n int64) []Issue {
	var issues []Issue

	cond, offset := inst.Cond, inst.Offset

	if cond.IsLiteral() && cond.Value() <= 0 {
		return nil
	}

	if !offset.IsLiteral() {
		return nil
	}

	off := offset.Value()

	if off == 0 && cond.IsLiteral() {
		issues = append(issues, Issue{
			Type:     IssueControl,
			Severity: SeverityWarning,
			PC:       pc,
			Message:  fmt.Sprintf("pc %d: %s loops on itself forever", pc, inst),
		})
	}

	// pc is in [0, n), so neither bound overflows.
	if off < -pc || off >= n-pc {
		issues = append(issues, Issue{
			Type:     IssueControl,
			Severity: SeverityInfo,
			PC:       pc,
			Message:  fmt.Sprintf("pc %d: %s jumps outside the program and halts the lane", pc, inst),
			Details:  map[string]interface{}{"offset": off, "length": n},
		})
	}

	return issues
}

func writesRegister(op instr.Opcode) bool {
	switch op {
	case instr.OpSet, instr.OpAdd, instr.OpMul, instr.OpMod, instr.OpRcv:
		return true
	default:
		return false
	}
}
