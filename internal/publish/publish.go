// Package publish exports a resume as PDF or Markdown to a local file or an S3-compatible bucket.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"vitae-cli/internal/render"
	"vitae-cli/internal/store"
	"vitae-cli/internal/templatedata"
)

type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
)

// ParseFormat accepts "pdf", "md" or "markdown"; empty means pdf.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use pdf or md)", s)
	}
}

func (f Format) contentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "application/pdf"
}

type WriteOptions struct {
	Format    Format
	Template  string
	Overwrite bool
}

type WriteResult struct {
	Written  []string `json:"written"`
	Template string   `json:"template,omitempty"`
	Bytes    int      `json:"bytes"`
}

// Sink stores one exported object. name is a file path or an object key.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string, overwrite bool) (string, error)
}

// Render produces the export bytes for a document and the template actually used.
func Render(db *store.DB, documentID string, opt WriteOptions) ([]byte, string, error) {
	if db == nil {
		return nil, "", errors.New("missing db")
	}
	r, err := templatedata.Build(db, documentID)
	if err != nil {
		return nil, "", err
	}
	if opt.Format == FormatMarkdown {
		return []byte(RenderResumeMarkdown(r)), "", nil
	}
	name := render.ResolveTemplate(opt.Template, r)
	var buf bytes.Buffer
	if err := render.RenderPDF(&buf, r, name); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), name, nil
}

// WriteDocument renders documentID and hands it to sink under name.
func WriteDocument(ctx context.Context, db *store.DB, documentID string, sink Sink, name string, opt WriteOptions) (WriteResult, error) {
	if sink == nil {
		return WriteResult{}, errors.New("missing sink")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	data, tmpl, err := Render(db, documentID, opt)
	if err != nil {
		return WriteResult{}, err
	}
	where, err := sink.Put(ctx, name, data, opt.Format.contentType(), opt.Overwrite)
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{where}, Template: tmpl, Bytes: len(data)}, nil
}

// DefaultFileName is "<title>.<ext>" with path separators and blanks folded to dashes.
func DefaultFileName(title string, f Format) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ', '\t':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if base == "" {
		base = "resume"
	}
	return base + "." + string(f)
}

// FileSink writes into the local filesystem, creating parent directories.
type FileSink struct{}

func (FileSink) Put(_ context.Context, name string, data []byte, _ string, overwrite bool) (string, error) {
	p := filepath.Clean(name)
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := writeFile(p, data, overwrite); err != nil {
		return "", err
	}
	return p, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}

// Target is a parsed --to value.
type Target struct {
	Bucket string // set for s3:// targets
	Key    string // object key, or the file path for local targets
}

func (t Target) IsS3() bool { return t.Bucket != "" }

// ParseTarget splits "s3://bucket/key" into bucket and key; anything else is a local path.
// A key ending in "/" (or an empty key) is a prefix and gets defaultName appended.
func ParseTarget(to, defaultName string) (Target, error) {
	to = strings.TrimSpace(to)
	if rest, ok := strings.CutPrefix(to, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Target{}, fmt.Errorf("invalid target %q: missing bucket", to)
		}
		if key == "" || strings.HasSuffix(key, "/") {
			key = path.Join(key, defaultName)
		}
		return Target{Bucket: bucket, Key: key}, nil
	}
	if to == "" {
		return Target{Key: defaultName}, nil
	}
	if st, err := os.Stat(to); err == nil && st.IsDir() {
		return Target{Key: filepath.Join(to, defaultName)}, nil
	}
	return Target{Key: to}, nil
}
