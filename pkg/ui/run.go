package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
)

// Run starts the chart in the alternate screen with mouse motion tracking
// and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, session *chart.Session, opts Options) error {
	p := tea.NewProgram(
		NewModel(session, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
