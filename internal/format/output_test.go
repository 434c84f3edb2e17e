package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID    string   `json:"id"`
	Tags  []string `json:"tags,omitempty"`
	Empty string   `json:"empty,omitempty"`
}

func TestWrite_JSONAndYAMLShareFieldNames(t *testing.T) {
	t.Parallel()
	v := map[string]any{"data": sample{ID: "doc-1", Tags: []string{"a"}}}

	var j bytes.Buffer
	if err := Write(&j, v, "json", false); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := j.String(); got != "{\"data\":{\"id\":\"doc-1\",\"tags\":[\"a\"]}}\n" {
		t.Fatalf("unexpected json: %q", got)
	}

	var y bytes.Buffer
	if err := Write(&y, v, "yaml", false); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	want := "data:\n  id: doc-1\n  tags:\n    - a\n"
	if got := y.String(); got != want {
		t.Fatalf("unexpected yaml:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(y.String(), "empty") {
		t.Fatalf("omitempty fields must be dropped")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteJSON_KeepsMarkup(t *testing.T) {
	t.Parallel()
	var b bytes.Buffer
	if err := WriteJSON(&b, map[string]string{"value": "<p>Led & shipped</p>"}, false); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := b.String(); got != "{\"value\":\"<p>Led & shipped</p>\"}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_FormatIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	var b bytes.Buffer
	if err := Write(&b, map[string]int{"count": 1}, " YAML ", false); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if b.String() != "count: 1\n" {
		t.Fatalf("unexpected yaml: %q", b.String())
	}
}
