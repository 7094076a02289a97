package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/asm"
	"github.com/sarchlab/duet/verify"
)

func newLintCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint PROGRAM",
		Short: "Check a program and print a verification report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := asm.LoadFile(args[0])
			if err != nil {
				return err
			}

			c := root.cfg.CoordinatorBuilder().
				WithProgram(prog).
				Build("Lint")

			report := verify.GenerateReport(c)
			report.WriteReport(cmd.OutOrStdout())

			if report.HasErrors() {
				return errors.New("verification found errors")
			}

			return nil
		},
	}
}
