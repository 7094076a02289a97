// Package api runs coordinators on an Akita simulation engine. The driver is
// a ticking component that executes one round per cycle and stops ticking
// once the run is over, so the engine drains and returns.
package api

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/coord"
	"github.com/sarchlab/duet/core"
)

// Driver ticks a coordinator session.
type Driver struct {
	*sim.TickingComponent

	session *coord.Session
	err     error
}

// Tick runs one round.
func (d *Driver) Tick() (madeProgress bool) {
	if d.session == nil || d.err != nil {
		return false
	}

	done, err := d.session.Round()
	if err != nil {
		d.err = err
		return false
	}

	return !done
}

// Run executes c to completion on the driver's engine. The result matches
// c.Run(); the simulated time is the number of rounds divided by the driver
// frequency.
func (d *Driver) Run(c *coord.Coordinator) (coord.Result, error) {
	if d.session != nil {
		return coord.Result{}, fmt.Errorf("%s is already running", d.Name())
	}

	d.session = c.Start()
	d.err = nil
	defer func() { d.session = nil }()

	d.TickLater()

	if err := d.Engine.Run(); err != nil {
		return coord.Result{}, fmt.Errorf("engine: %w", err)
	}

	r := d.session.Result()

	core.Trace("DriverDone",
		"Driver", d.Name(),
		"Time", float64(d.Engine.CurrentTime()),
		"Rounds", r.Rounds,
		"Reason", r.Reason.String(),
	)

	if d.err != nil {
		if r.Reason == coord.ReasonRoundLimit {
			return r, d.err
		}
		return coord.Result{}, d.err
	}

	return r, nil
}
