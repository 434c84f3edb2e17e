package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/store"
	"vitae-cli/internal/tui"
	"vitae-cli/internal/web"

	"github.com/spf13/cobra"
)

// openBuilder loads the workspace into a live builder that saves in the background.
func openBuilder(ctx context.Context, app *App) (*builder.Builder, error) {
	s, err := resolveStore(app)
	if err != nil {
		return nil, err
	}
	return builder.Open(ctx, s, builder.Options{})
}

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and live preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Save failures are logged by the builder and pushed to live clients.
			b, err := openBuilder(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := b.Close(closeCtx); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "final save failed:", err)
				}
			}()

			if err := web.Run(ctx, web.Config{Addr: addr, Builder: b}); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envOr("VITAE_ADDR", "127.0.0.1:8742"), "Listen address")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive editor (same as running vitae with no command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	// Save errors reach the TUI status line through the builder's change feed.
	b, err := openBuilder(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.Close(closeCtx); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "final save failed:", err)
		}
	}()

	opts := tui.Options{}
	if cfg, err := store.LoadConfig(); err == nil {
		opts.SkipDeleteConfirmation = cfg.SkipItemDeleteConfirmation
		if cfg.TUI != nil {
			opts.Preview = cfg.TUI.Preview
			opts.GlamourStyle = cfg.TUI.GlamourStyle
		}
	}
	return tui.Run(ctx, b, opts)
}
