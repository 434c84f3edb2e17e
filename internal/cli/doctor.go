package cli

import (
	"errors"

	"vitae-cli/internal/model"
	"vitae-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the workspace for broken references and ordering gaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			report := store.Doctor(db)
			if err := writeOut(cmd, app, map[string]any{"data": report}); err != nil {
				return err
			}
			if report.HasErrors() {
				return errors.New("doctor found errors")
			}
			return nil
		},
	}
}

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	var entity string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the most recent journal entries, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			var evs []model.Event
			if entity != "" {
				evs, err = s.ReadEventsForEntity(cmd.Context(), entity, limit)
			} else {
				evs, err = s.ReadEvents(cmd.Context(), limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events (0 = all)")
	cmd.Flags().StringVar(&entity, "entity", "", "Only events for this entity id")
	return cmd
}
