package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"nostdcheck/internal/checkpipeline"
	"nostdcheck/internal/sysroot"
	"nostdcheck/internal/ui"
)

// materializeWithUI runs sysroot materialization in a goroutine while the
// progress model consumes its events. The synthesis error wins over a UI
// rendering error since it is the one that matters for the run.
func materializeWithUI(ctx context.Context, driver *checkpipeline.Driver, plan *sysroot.Plan) error {
	events := make(chan sysroot.Event, 256)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return driver.Materialize(gctx, plan, sysroot.ChannelSink{Ch: events})
	})

	model := ui.NewCopyModel("nostd sysroot", plan.Total(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()

	// An early UI exit leaves events unread; keep draining so the synthesis
	// goroutine never blocks on a full buffer.
	drainEvents(events)

	if err := g.Wait(); err != nil {
		return err
	}
	return uiErr
}

func drainEvents(events <-chan sysroot.Event) {
	for range events {
	}
}
