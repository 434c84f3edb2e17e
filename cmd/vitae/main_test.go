package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewriteDocumentShortcut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"vitae"},
			want: []string{"vitae"},
		},
		{
			name: "document id first token",
			in:   []string{"vitae", "doc-abc123"},
			want: []string{"vitae", "documents", "show", "doc-abc123"},
		},
		{
			name: "after value flag",
			in:   []string{"vitae", "--dir", "./ws", "doc-abc123"},
			want: []string{"vitae", "--dir", "./ws", "documents", "show", "doc-abc123"},
		},
		{
			name: "after equals flag",
			in:   []string{"vitae", "--format=yaml", "doc-abc123"},
			want: []string{"vitae", "--format=yaml", "documents", "show", "doc-abc123"},
		},
		{
			name: "after bool flag",
			in:   []string{"vitae", "--pretty", "doc-abc123"},
			want: []string{"vitae", "--pretty", "documents", "show", "doc-abc123"},
		},
		{
			name: "after double dash",
			in:   []string{"vitae", "--workspace", "w", "--", "doc-abc123"},
			want: []string{"vitae", "--workspace", "w", "--", "documents", "show", "doc-abc123"},
		},
		{
			name: "value flag consumes a document-looking value",
			in:   []string{"vitae", "--dir", "doc-abc123"},
			want: []string{"vitae", "--dir", "doc-abc123"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"vitae", "documents", "show", "doc-abc123"},
			want: []string{"vitae", "documents", "show", "doc-abc123"},
		},
		{
			name: "bare prefix is not an id",
			in:   []string{"vitae", "doc-"},
			want: []string{"vitae", "doc-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDocumentShortcut(append([]string(nil), tt.in...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("rewrite mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
