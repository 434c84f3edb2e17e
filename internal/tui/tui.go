// Package tui is the interactive terminal editor over a builder session.
package tui

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"vitae-cli/internal/builder"

	tea "github.com/charmbracelet/bubbletea"
)

// Run blocks until the user quits, then flushes pending saves.
func Run(ctx context.Context, b *builder.Builder, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	// The alt screen owns stderr; background save logs go to VITAE_TUI_LOG or nowhere.
	prevLog := log.Writer()
	defer log.SetOutput(prevLog)
	if path := strings.TrimSpace(os.Getenv("VITAE_TUI_LOG")); path != "" {
		f, err := tea.LogToFile(path, "vitae")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := newAppModel(b, opts)
	defer m.unsubscribe()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if ferr := b.Flush(flushCtx); err == nil {
		err = ferr
	}
	return err
}
