// Package verify checks programs before they run.
//
// It has two stages. RunLint walks the instructions and flags code that is
// certain to fail or likely to misbehave: modulo by a literal zero,
// unconditional self loops, jumps that leave the program, one-sided
// communication and registers that are read but never written. GenerateReport
// combines the lint result with an actual coordinator run.
//
// # Usage Example
//
//	prog, _ := asm.LoadFile("duet.yaml")
//	c := coord.NewBuilder().WithProgram(prog).Build("Duet")
//
//	report := verify.GenerateReport(c)
//	report.WriteReport(os.Stdout)
//	if report.HasErrors() {
//	    atexit.Exit(1)
//	}
package verify

import "fmt"

// IssueType categorizes lint issues
type IssueType string

const (
	IssueArith   IssueType = "ARITH"   // Arithmetic that always fails
	IssueControl IssueType = "CONTROL" // Jumps that never leave or always leave
	IssueComm    IssueType = "COMM"    // Channel usage that cannot pair up
	IssueData    IssueType = "DATA"    // Registers that always read as zero
)

// Severity ranks lint issues.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Issue represents a single lint issue
type Issue struct {
	Type     IssueType
	Severity Severity
	PC       int64 // Instruction index, or -1 for whole-program issues
	Message  string
	Details  map[string]interface{}
}
