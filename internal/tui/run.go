package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the study until the user quits, then writes a final snapshot of
// every open tab.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return errors.Join(err, opts.Registry.Flush(context.Background()))
}
