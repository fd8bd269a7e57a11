package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qmllint/internal/driver"
	"qmllint/internal/ui"
)

type lintOutcome struct {
	report *driver.Report
	err    error
}

// runCheckWithUI lints paths while a progress view renders on stderr.
func runCheckWithUI(ctx context.Context, paths []string, opts driver.Options) (*driver.Report, error) {
	files, err := driver.ListDocuments(paths)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		report, err := driver.LintPaths(ctx, paths, opts)
		outcomeCh <- lintOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("qmllint", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы горутина не повисла
		for range events {
		}
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
