package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cstyle/internal/driver"
	"cstyle/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs driver.Check in the background and renders its events
// with the progress view on stderr. Events left when the view exits are
// drained so the check still completes.
func runCheckWithUI(ctx context.Context, title string, paths []string, opts driver.Options) (*driver.Result, error) {
	files, err := driver.ListFiles(paths)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Check(ctx, paths, opts)
		close(events)
		outcomeCh <- checkOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "progress view: %v\n", err)
	}
	// вид мог закрыться раньше Check
	for range events {
	}
	outcome := <-outcomeCh
	return outcome.result, outcome.err
}
