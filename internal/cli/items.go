package cli

import (
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/model"
	"vitae-cli/internal/mutate"
	"vitae-cli/internal/store"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Entries of a section",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	return cmd
}

func itemTree(db *store.DB, it *model.Item) builder.ItemTree {
	out := builder.ItemTree{Item: *it, Fields: []model.Field{}}
	for _, f := range db.FieldsOf(it.ID) {
		out.Fields = append(out.Fields, *f)
	}
	return out
}

func newItemsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <section-id>",
		Short: "List items with their fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindSection(args[0]); !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "section", ID: args[0]})
			}
			out := []builder.ItemTree{}
			for _, it := range db.ItemsOf(args[0]) {
				out = append(out, itemTree(db, it))
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newItemsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <section-id>",
		Short: "Append an empty entry to a collapsible section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.AddItem(db, args[0], time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := commit(cmd.Context(), s, db, mutate.EventItemAdd, res.Item.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": builder.ItemTree{Item: *res.Item, Fields: res.Fields}})
		},
	}
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an entry and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindItem(args[0]); !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "item", ID: args[0]})
			}
			if err := confirmDelete(cmd, yes, "item "+args[0]); err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.RemoveItem(db, args[0], time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := commit(cmd.Context(), s, db, mutate.EventItemRemove, res.ItemID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"id":            res.ItemID,
				"sectionId":     res.SectionID,
				"removedFields": res.RemovedFields,
			}})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var to int
	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an entry to a 1-based position within its section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.MoveItem(db, args[0], to, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd.Context(), s, db, mutate.EventItemMove, args[0], res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"id":      res.ID,
				"changed": res.Changed,
				"order":   res.OrderByID,
			}})
		},
	}
	cmd.Flags().IntVar(&to, "to", 0, "Target position (1 = first)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
