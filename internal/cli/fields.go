package cli

import (
	"io"
	"strings"
	"time"

	"vitae-cli/internal/model"
	"vitae-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newFieldsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field"},
		Short:   "Field values of an item",
	}
	cmd.AddCommand(newFieldsListCmd(app))
	cmd.AddCommand(newFieldsSetCmd(app))
	return cmd
}

func newFieldsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <item-id>",
		Short: "List fields in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindItem(args[0]); !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "item", ID: args[0]})
			}
			out := []model.Field{}
			for _, f := range db.FieldsOf(args[0]) {
				out = append(out, *f)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newFieldsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field-id> <value...>",
		Short: "Set a field value (\"-\" reads the value from stdin)",
		Example: strings.TrimSpace(`
  vitae fields set fld-xxxx "Ada"
  vitae fields set fld-yyyy 2021-04
  echo "<p>Led the team</p>" | vitae fields set fld-zzzz -
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.Join(args[1:], " ")
			if value == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				value = strings.TrimRight(string(b), "\n")
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.UpdateField(db, args[0], value, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd.Context(), s, db, mutate.EventFieldUpdate, args[0], res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": res.Field})
		},
	}
}
