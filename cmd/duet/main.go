// Command duet runs dual-lane register machine programs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/duet/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        config.Config
}

func main() {
	root := newRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "duet",
		Short:         "Run programs on two lockstep register machines",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, trace, info, warn or error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newSoloCmd(opts))
	root.AddCommand(newLintCmd(opts))

	return root
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg := config.Default()

	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := os.Create(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		atexit.Register(func() {
			f.Close()
		})

		w = f
	}

	slog.SetDefault(cfg.NewLogger(w))
	o.cfg = cfg

	return nil
}
