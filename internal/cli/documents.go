package cli

import (
	"errors"
	"strings"
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/model"
	"vitae-cli/internal/mutate"
	"vitae-cli/internal/store"

	"github.com/spf13/cobra"
)

type documentView struct {
	model.Document
	Current bool `json:"current"`
}

// documentArg returns args[0] or, when absent, the current document.
func documentArg(db *store.DB, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if db.CurrentDocumentID == "" {
		return "", errors.New("no current document; pass a document id or run `vitae documents use <doc-id>`")
	}
	return db.CurrentDocumentID, nil
}

func newDocumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs", "document"},
		Short:   "Resume documents",
	}
	cmd.AddCommand(newDocumentsCreateCmd(app))
	cmd.AddCommand(newDocumentsListCmd(app))
	cmd.AddCommand(newDocumentsShowCmd(app))
	cmd.AddCommand(newDocumentsRenameCmd(app))
	cmd.AddCommand(newDocumentsDeleteCmd(app))
	cmd.AddCommand(newDocumentsUseCmd(app))
	cmd.AddCommand(newDocumentsSetTemplateCmd(app))
	return cmd
}

func newDocumentsCreateCmd(app *App) *cobra.Command {
	var title, tmpl string
	var use bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a document seeded with the standard sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if tmpl == "" {
				if cfg, err := store.LoadConfig(); err == nil {
					tmpl = cfg.DefaultTemplate
				}
			}
			res, err := mutate.CreateDocument(db, title, tmpl, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				db.CurrentDocumentID = res.Document.ID
			}
			if err := commit(cmd.Context(), s, db, mutate.EventDocumentCreate, res.Document.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Document})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Document title (default: Untitled)")
	cmd.Flags().StringVar(&tmpl, "template", "", "Template id (default: config defaultTemplate, else london)")
	cmd.Flags().BoolVar(&use, "use", false, "Make it the current document")
	return cmd
}

func newDocumentsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := []documentView{}
			for _, d := range db.DocumentsByUpdated() {
				out = append(out, documentView{Document: d, Current: d.ID == db.CurrentDocumentID})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newDocumentsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [doc-id]",
		Short: "Show a document with its sections, items and fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := documentArg(db, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			tree, err := builder.BuildTree(db, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tree})
		},
	}
}

func newDocumentsRenameCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "rename [doc-id]",
		Short: "Rename a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := documentArg(db, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.RenameDocument(db, id, title, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd.Context(), s, db, mutate.EventDocumentRename, id, res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": res.Document})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newDocumentsDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <doc-id>",
		Short: "Delete a document and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			doc, ok := db.FindDocument(id)
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "document", ID: id})
			}
			if err := confirmDelete(cmd, yes, "document "+doc.Title); err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.DeleteDocument(db, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := commit(cmd.Context(), s, db, mutate.EventDocumentDelete, id, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"id":              res.DocumentID,
				"removedSections": res.RemovedSections,
				"removedItems":    res.RemovedItems,
				"removedFields":   res.RemovedFields,
			}})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newDocumentsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <doc-id>",
		Short: "Make a document the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			doc, ok := db.FindDocument(id)
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "document", ID: id})
			}
			if db.CurrentDocumentID != id {
				db.CurrentDocumentID = id
				if err := commit(cmd.Context(), s, db, mutate.EventDocumentUse, id, nil); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": documentView{Document: *doc, Current: true}})
		},
	}
}

func newDocumentsSetTemplateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-template [doc-id] <template>",
		Short: "Choose the template a document renders with",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tmpl := args[len(args)-1]
			id, err := documentArg(db, args[:len(args)-1])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetDocumentTemplate(db, id, tmpl, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd.Context(), s, db, mutate.EventDocumentTemplate, id, res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": res.Document})
		},
	}
}
