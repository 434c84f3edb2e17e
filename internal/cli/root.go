package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vitae-cli/internal/format"
	"vitae-cli/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	app := &App{}

	cmd := &cobra.Command{
		Use:          "vitae",
		Short:        "vitae: local-first resume builder (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  vitae

  # Scriptable commands
  vitae documents create --title "Ada Lovelace"
  vitae fields set fld-xxxx "Ada"
  vitae export --template manhattan --to ada.pdf

  # Direct document lookup (shortcut for: vitae documents show <doc-id>)
  vitae doc-k3x9a2mq
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("VITAE_DIR", ""), "Path to store dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("VITAE_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("VITAE_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newDocumentsCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newFieldsCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newEditCmd(app))

	return cmd
}

// resolveStore picks the store directory: --dir, then --workspace, then the configured
// current workspace, then "default".
func resolveStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		ws := app.Workspace
		if ws == "" {
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
				ws = cfg.CurrentWorkspace
			} else {
				ws = "default"
			}
		}
		d, err := store.WorkspaceDir(ws)
		if err != nil {
			return store.Store{}, err
		}
		app.Workspace = ws
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	s, err := resolveStore(app)
	if err != nil {
		return nil, s, err
	}
	if err := s.Ensure(); err != nil {
		return nil, s, err
	}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// commit saves the whole state and journals one event.
func commit(ctx context.Context, s store.Store, db *store.DB, typ, entityID string, payload any) error {
	if err := s.SaveSQLite(ctx, db); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := s.AppendEventContext(ctx, typ, entityID, payload); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
