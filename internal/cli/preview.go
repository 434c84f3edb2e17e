package cli

import (
	"fmt"
	"os"
	"strings"

	"vitae-cli/internal/publish"
	"vitae-cli/internal/render"
	"vitae-cli/internal/store"
	"vitae-cli/internal/templatedata"

	"github.com/spf13/cobra"
)

func newPreviewCmd(app *App) *cobra.Command {
	var tmpl string
	var page int
	var markdown bool
	cmd := &cobra.Command{
		Use:   "preview [doc-id]",
		Short: "Render a document and show one page as text",
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
			r, err := templatedata.Build(db, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if markdown {
				_, err := fmt.Fprint(cmd.OutOrStdout(), publish.RenderResumeMarkdown(r))
				return err
			}

			var p render.Previewer
			pv, err := p.Render(r, tmpl)
			if err != nil {
				return writeErr(cmd, err)
			}
			if page > 0 {
				pv.CurrentPage = p.SetPage(page)
			}
			text, err := render.PageText(pv.PDF, pv.CurrentPage)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"template":      pv.Template,
				"numberOfPages": pv.NumberOfPages,
				"currentPage":   pv.CurrentPage,
				"text":          text,
			}})
		},
	}
	cmd.Flags().StringVar(&tmpl, "template", "", "Template id (default: the document's template)")
	cmd.Flags().IntVar(&page, "page", 0, "Page to show (clamped to the page count)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the resume as Markdown instead")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var tmpl, to, formatFlag string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "export [doc-id]",
		Short: "Export a document as PDF or Markdown to a file or s3://bucket/key",
		Example: strings.TrimSpace(`
  vitae export --to ada.pdf
  vitae export doc-k3x9a2mq --template manhattan --to out/
  vitae export --format md --to s3://cv-bucket/public/
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := publish.ParseFormat(formatFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := documentArg(db, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, ok := db.FindDocument(id)
			if !ok {
				return writeErr(cmd, fmt.Errorf("document not found: %s", id))
			}
			target, err := publish.ParseTarget(to, publish.DefaultFileName(doc.Title, f))
			if err != nil {
				return writeErr(cmd, err)
			}

			var sink publish.Sink = publish.FileSink{}
			if target.IsS3() {
				cfg, err := store.LoadConfig()
				if err != nil {
					return writeErr(cmd, err)
				}
				s3sink, err := publish.NewS3Sink(cmd.Context(), s3Config(cfg, target.Bucket))
				if err != nil {
					return writeErr(cmd, err)
				}
				sink = s3sink
			}

			res, err := publish.WriteDocument(cmd.Context(), db, id, sink, target.Key, publish.WriteOptions{
				Format:    f,
				Template:  tmpl,
				Overwrite: overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&tmpl, "template", "", "Template id (default: the document's template)")
	cmd.Flags().StringVar(&to, "to", "", "Output file, directory, or s3://bucket/key (default: ./<title>.<ext>)")
	cmd.Flags().StringVar(&formatFlag, "as", "pdf", "Export format (pdf|md)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file or object")
	return cmd
}

// s3Config merges the configured export target with VITAE_S3_* overrides.
// Credentials only ever come from the environment.
func s3Config(cfg *store.GlobalConfig, bucket string) publish.S3Config {
	out := publish.S3Config{Bucket: bucket}
	if cfg != nil && cfg.Export != nil {
		out.Region = cfg.Export.Region
		out.Endpoint = cfg.Export.Endpoint
		out.Prefix = cfg.Export.Prefix
	}
	out.Region = envOr("VITAE_S3_REGION", out.Region)
	out.Endpoint = envOr("VITAE_S3_ENDPOINT", out.Endpoint)
	out.AccessKey = os.Getenv("VITAE_S3_ACCESS_KEY")
	out.SecretKey = os.Getenv("VITAE_S3_SECRET_KEY")
	return out
}

type templateView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Family      string `json:"family,omitempty"`
}

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Resume templates",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := []templateView{}
			for _, name := range render.Names() {
				v := templateView{Name: name}
				if st, err := render.StyleFor(name); err == nil {
					v.Description = st.Description
					v.Family = st.Family
				}
				out = append(out, v)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	})
	return cmd
}
