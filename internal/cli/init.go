package cli

import (
	"vitae-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the workspace store",
		RunE: func(cmd *cobra.Command, args []string) error {
			explicitDir := app.Dir != ""
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Loading creates the SQLite file; saving writes the schema version.
			if err := s.SaveSQLite(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			if !explicitDir {
				if _, err := store.UpdateConfig(func(cfg *store.GlobalConfig) {
					if cfg.CurrentWorkspace == "" {
						cfg.CurrentWorkspace = app.Workspace
					}
				}); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":        s.Dir,
				"workspace":  app.Workspace,
				"sqlitePath": s.SQLitePath(),
				"documents":  len(db.Documents),
			}})
		},
	}
}

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"workspaces", "ws"},
		Short:   "Named stores under ~/.vitae/workspaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			current := "default"
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
				current = cfg.CurrentWorkspace
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"workspaces": names,
				"current":    current,
			}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Switch the current workspace, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := store.UpdateConfig(func(cfg *store.GlobalConfig) {
				cfg.CurrentWorkspace = name
			}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"current": name, "dir": dir}})
		},
	})

	return cmd
}
