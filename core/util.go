package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

// Trace logs at LevelTrace through the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState renders lane snapshots as a table.
func PrintState(w io.Writer, states ...LaneState) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Lanes")
	t.AppendHeader(table.Row{"Lane", "ID", "PC", "Status", "Steps", "Sent", "Last Sent", "Registers"})

	for _, s := range states {
		last := "-"
		if s.HasSent {
			last = fmt.Sprintf("%d", s.LastSent)
		}

		t.AppendRow(table.Row{
			s.Name, s.ID, s.PC, s.Status, s.Steps, s.SentCount, last,
			formatRegisters(s.Registers),
		})
	}

	t.Render()
}

// LogState writes a lane snapshot at debug level.
func LogState(s LaneState) {
	slog.Debug("LaneState",
		"Lane", s.Name,
		"ID", s.ID,
		"PC", s.PC,
		"Status", s.Status.String(),
		"Steps", s.Steps,
		"Sent", s.SentCount,
		"Registers", s.Registers,
	)
}

func formatRegisters(regs map[string]int64) string {
	names := make([]string, 0, len(regs))
	for name := range regs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, regs[name]))
	}

	return strings.Join(parts, " ")
}
