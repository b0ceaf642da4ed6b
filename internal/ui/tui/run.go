package tui

import (
	"context"
	"layercheck/internal/data/history"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the browser until the user quits or ctx is cancelled. Results
// received on updates replace the displayed findings.
func Run(ctx context.Context, initial Update, trend *history.TrendReport, updates <-chan Update) error {
	m := initialModel(trend)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan struct{})
	defer close(done)
	go func() {
		p.Send(updateMsg(initial))
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				p.Send(updateMsg(u))
			}
		}
	}()

	_, err := p.Run()
	if err == tea.ErrProgramKilled && ctx.Err() != nil {
		return nil
	}
	return err
}
