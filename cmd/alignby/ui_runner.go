package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"alignby/internal/driver"
	"alignby/internal/project"
	"alignby/internal/ui"
)

type alignOutcome struct {
	results []driver.Result
	err     error
}

// runAlignWithUI runs AlignPaths while a Bubble Tea program renders its
// progress events.
func runAlignWithUI(ctx context.Context, title string, entries []project.Entry, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan alignOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.AlignPaths(ctx, entries, runOpts)
		outcomeCh <- alignOutcome{results: results, err: err}
		close(events)
	}()

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		files = append(files, e.Path)
	}

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// после ctrl+c программа завершилась, но события ещё идут; вычитываем их
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
