package ui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/healthscatter/pkg/debug"
	"github.com/vanderheijden86/healthscatter/pkg/model"
	"github.com/vanderheijden86/healthscatter/pkg/watcher"
)

// LoaderFunc reads the dataset again for a reload.
type LoaderFunc func() ([]model.Record, error)

// frameMsg advances a running transition.
type frameMsg struct{ at time.Time }

// reloadMsg carries the result of a dataset reload.
type reloadMsg struct {
	records []model.Record
	err     error
}

// fileEventMsg wraps a watcher event.
type fileEventMsg struct{ ev watcher.Event }

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	text string
	err  error
}

// clipboardWrite is swapped in tests; the real clipboard needs a display.
var clipboardWrite = clipboard.WriteAll

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg{at: t}
	})
}

func reloadCmd(load LoaderFunc) tea.Cmd {
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		start := time.Now()
		records, err := load()
		debug.LogTiming("reload dataset", time.Since(start))
		return reloadMsg{records: records, err: err}
	}
}

// watchCmd blocks until the watcher reports an event. It is re-issued
// after every event.
func watchCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		return fileEventMsg{ev: <-w.Events()}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{text: text, err: clipboardWrite(text)}
	}
}
