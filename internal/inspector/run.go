package inspector

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
)

// Run starts the interactive inspector on the terminal and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, opts packet.Options) error {
	logging.Debug("Starting inspector")

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("inspector: %w", err)
	}

	if m, ok := final.(Model); ok {
		logging.Debug("Inspector closed", zap.Int("submitted", m.Submitted))
	}
	return nil
}
