package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/api"
	"github.com/sarchlab/duet/asm"
	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/coord"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
)

type runOptions struct {
	maxRounds int
	lane      int
	engine    string
	identity  string
	loopback  bool
	monitor   bool
	state     bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run PROGRAM",
		Short: "Run a program on two lanes and print the designated lane's send count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.apply(cmd, root.cfg)
			if err != nil {
				return err
			}

			prog, err := asm.LoadFile(args[0])
			if err != nil {
				return err
			}

			return opts.run(cmd, cfg, prog)
		},
	}

	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 0, "Round limit, 0 for unlimited")
	cmd.Flags().IntVar(&opts.lane, "lane", 1, "Lane whose sends are counted, 0 or 1")
	cmd.Flags().StringVar(&opts.engine, "engine", config.EngineDirect, "Scheduler: direct or akita")
	cmd.Flags().StringVar(&opts.identity, "identity", "p", "Register seeded with the lane index")
	cmd.Flags().BoolVar(&opts.loopback, "loopback", false, "Run a single lane that receives its own sends")
	cmd.Flags().BoolVar(&opts.monitor, "monitor", false, "Serve the Akita monitor while running on the akita engine")
	cmd.Flags().BoolVar(&opts.state, "state", false, "Print the final lane state")

	return cmd
}

func (o *runOptions) apply(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()

	if flags.Changed("max-rounds") {
		cfg.Run.MaxRounds = o.maxRounds
	}
	if flags.Changed("lane") {
		cfg.Run.DesignatedLane = o.lane
	}
	if flags.Changed("engine") {
		cfg.Run.Engine = o.engine
	}
	if flags.Changed("identity") {
		cfg.Run.IdentityRegister = o.identity
	}
	if flags.Changed("loopback") {
		cfg.Run.Loopback = o.loopback
	}

	if o.monitor && !flags.Changed("engine") {
		cfg.Run.Engine = config.EngineAkita
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	if o.monitor && cfg.Run.Engine != config.EngineAkita {
		return config.Config{}, errors.New("--monitor requires the akita engine")
	}

	return cfg, nil
}

func (o *runOptions) run(cmd *cobra.Command, cfg config.Config, prog instr.Program) error {
	c := cfg.CoordinatorBuilder().
		WithProgram(prog).
		Build("Duet")

	switch strings.ToLower(cfg.Log.Level) {
	case "trace", "debug":
		c.AcceptHook(coord.NewTraceHook())
	}

	var (
		res coord.Result
		err error
	)

	switch cfg.Run.Engine {
	case config.EngineAkita:
		res, err = o.runOnEngine(c)
	default:
		res, err = c.Run()
	}

	if err != nil && !errors.Is(err, coord.ErrRoundLimit) {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Count())

	if o.state {
		core.PrintState(out, res.Lanes...)
	}

	return err
}

func (o *runOptions) runOnEngine(c *coord.Coordinator) (coord.Result, error) {
	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	if !o.monitor {
		return driver.Run(c)
	}

	monitor := monitoring.NewMonitor()
	monitor.RegisterEngine(engine)
	monitor.RegisterComponent(driver)
	monitor.StartServer()

	res, err := driver.Run(c)

	fmt.Fprintln(os.Stderr, "run finished, monitor still serving, press Ctrl-C to exit")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	return res, err
}
