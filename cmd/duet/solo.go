package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/asm"
	"github.com/sarchlab/duet/solo"
)

func newSoloCmd(root *rootOptions) *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "solo PROGRAM",
		Short: "Run a program in sound mode and print the first recovered value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := root.cfg.Solo.MaxSteps
			if cmd.Flags().Changed("max-steps") {
				if maxSteps < 0 {
					return fmt.Errorf("--max-steps must not be negative")
				}
				limit = maxSteps
			}

			prog, err := asm.LoadFile(args[0])
			if err != nil {
				return err
			}

			res, err := solo.Run(prog, limit)
			if err != nil {
				return err
			}

			if !res.OK {
				return errors.New("program ended without recovering a value")
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Recovered)

			return nil
		},
	}

	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Step limit, 0 for unlimited")

	return cmd
}
