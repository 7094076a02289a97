package coord

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
)

// TraceHook logs lane steps at core.LevelTrace and rounds at debug level.
type TraceHook struct{}

// NewTraceHook creates a TraceHook.
func NewTraceHook() *TraceHook {
	return &TraceHook{}
}

// Func implements sim.Hook.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosLaneStep:
		e := ctx.Item.(LaneEvent)
		args := []any{
			"Round", e.Round,
			"Lane", e.Lane,
			"PC", e.Outcome.PC,
			"Inst", e.Outcome.Inst.String(),
			"Outcome", e.Outcome.Kind.String(),
		}
		if e.Outcome.Sent || e.Outcome.Received {
			args = append(args, "Value", e.Outcome.Value)
		}
		core.Trace("LaneStep", args...)
	case HookPosRound:
		e := ctx.Item.(RoundEvent)
		slog.Debug("Round",
			"Round", e.Round,
			"Progress", e.Progress,
			"Reason", e.Reason.String(),
		)
	}
}
