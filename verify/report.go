package verify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/duet/coord"
	"github.com/sarchlab/duet/core"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	ProgramName  string
	Instructions int
	LintIssues   []Issue
	Result       coord.Result
	RunErr       error
	RunOK        bool
}

// GenerateReport lints the coordinator's program and runs it.
func GenerateReport(c *coord.Coordinator) *VerificationReport {
	program := c.Program()

	report := &VerificationReport{
		ProgramName:  program.Name,
		Instructions: program.Len(),
		LintIssues:   RunLintWithIdentity(program, c.IdentityRegister()),
	}

	report.Result, report.RunErr = c.Run()
	report.RunOK = report.RunErr == nil

	return report
}

// CountBySeverity returns how many lint issues have the given severity.
func (r *VerificationReport) CountBySeverity(s Severity) int {
	count := 0
	for _, issue := range r.LintIssues {
		if issue.Severity == s {
			count++
		}
	}

	return count
}

// HasErrors reports whether lint found an error or the run failed.
func (r *VerificationReport) HasErrors() bool {
	return !r.RunOK || r.CountBySeverity(SeverityError) > 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s (%d instructions)\n", r.ProgramName, r.Instructions)
	fmt.Fprintln(w, separator)

	fmt.Fprintln(w, "\nSTAGE 1: STATIC LINT CHECKS")

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		r.writeIssues(w)
	}

	fmt.Fprintln(w, "\nSTAGE 2: COORDINATOR RUN")

	switch {
	case r.RunOK:
		fmt.Fprintf(w, "Run %s after %d rounds, count %d\n",
			r.Result.Reason, r.Result.Rounds, r.Result.Count())
	case errors.Is(r.RunErr, coord.ErrRoundLimit):
		fmt.Fprintf(w, "Run stopped: %v\n", r.RunErr)
	default:
		fmt.Fprintf(w, "Run failed: %v\n", r.RunErr)
	}

	if len(r.Result.Lanes) > 0 {
		core.PrintState(w, r.Result.Lanes...)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintf(w, "Lint Result: %d issues (%d error, %d warning, %d info)\n",
		len(r.LintIssues),
		r.CountBySeverity(SeverityError),
		r.CountBySeverity(SeverityWarning),
		r.CountBySeverity(SeverityInfo))

	status := "SUCCESS"
	if !r.RunOK {
		status = "FAILED: " + r.RunErr.Error()
	}
	fmt.Fprintf(w, "Run Result: %s\n", status)
	fmt.Fprintln(w, separator)
}

func (r *VerificationReport) writeIssues(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Type", "Severity", "PC", "Message"})

	for i, issue := range r.LintIssues {
		pc := "-"
		if issue.PC >= 0 {
			pc = fmt.Sprintf("%d", issue.PC)
		}

		t.AppendRow(table.Row{i + 1, issue.Type, issue.Severity, pc, issue.Message})
	}

	t.Render()
}
