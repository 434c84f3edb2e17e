package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/mutate"

	"github.com/spf13/cobra"
)

type sectionView struct {
	ID              string                       `json:"id"`
	Title           string                       `json:"title"`
	Type            string                       `json:"type"`
	DisplayOrder    int                          `json:"displayOrder"`
	MetadataOptions []mutate.MetadataOptionState `json:"metadataOptions"`
	Items           int                          `json:"items"`
}

func newSectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sections",
		Aliases: []string{"section"},
		Short:   "Sections of a document",
	}
	cmd.AddCommand(newSectionsListCmd(app))
	cmd.AddCommand(newSectionsRenameCmd(app))
	cmd.AddCommand(newSectionsMoveCmd(app))
	cmd.AddCommand(newSectionsMetaCmd(app))
	return cmd
}

func newSectionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [doc-id]",
		Short: "List sections in display order",
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
			out := make([]sectionView, 0, len(tree.Sections))
			for _, s := range tree.Sections {
				out = append(out, sectionView{
					ID:              s.ID,
					Title:           s.Title,
					Type:            string(s.Type),
					DisplayOrder:    s.DisplayOrder,
					MetadataOptions: s.MetadataOptions,
					Items:           len(s.Items),
				})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newSectionsRenameCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "rename <section-id>",
		Short: "Rename a section (an empty title restores the default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.RenameSection(db, args[0], title, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd.Context(), s, db, mutate.EventSectionRename, args[0], res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": res.Section})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	return cmd
}

func newSectionsMoveCmd(app *App) *cobra.Command {
	var to int
	cmd := &cobra.Command{
		Use:   "move <section-id>",
		Short: "Move a section to a 1-based position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.MoveSection(db, args[0], to, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd.Context(), s, db, mutate.EventSectionMove, args[0], res.EventPayload); err != nil {
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

func newSectionsMetaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "meta <section-id> <key> <on|off>",
		Short: "Set a section switch (e.g. showExperienceLevel)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseSwitch(args[2])
			if err != nil {
				return writeErr(cmd, err)
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetSectionMetadata(db, args[0], args[1], on, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd.Context(), s, db, mutate.EventSectionMetadata, args[0], res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"section":         res.Section,
				"metadataOptions": mutate.SectionMetadataOptions(*res.Section),
			}})
		},
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on|off, got %q", s)
	}
	return b, nil
}
