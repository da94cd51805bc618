// Package tui draws a session in the terminal: the map with its ego
// sidebar on one tab and the device explorer on the other.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"netmap/internal/service"
)

// Run blocks until the user quits, the context ends or the session closes
func Run(ctx context.Context, s *service.Session, opts Options) error {
	m, err := New(s, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
