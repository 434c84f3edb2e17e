package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/model"
	"vitae-cli/internal/store"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopBackend struct{}

func (nopBackend) SaveSQLite(context.Context, *store.DB) error { return nil }
func (nopBackend) AppendEventContext(context.Context, string, string, any) error {
	return nil
}

type fixture struct {
	b   *builder.Builder
	h   http.Handler
	doc model.Document
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	b := builder.New(&store.DB{}, nopBackend{}, builder.Options{Debounce: time.Hour})
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	doc, err := b.CreateDocument("Ada's CV", "")
	require.NoError(t, err)
	srv, err := NewServer(b)
	require.NoError(t, err)
	return fixture{b: b, h: srv.Handler(), doc: doc}
}

func (f fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func (f fixture) tree(t *testing.T) builder.Tree {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/documents/"+f.doc.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree builder.Tree
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	return tree
}

func (f fixture) section(t *testing.T, typ model.SectionType) builder.SectionTree {
	t.Helper()
	for _, s := range f.tree(t).Sections {
		if s.Type == typ {
			return s
		}
	}
	t.Fatalf("section %s not found", typ)
	return builder.SectionTree{}
}

func fieldID(t *testing.T, it builder.ItemTree, name string) string {
	t.Helper()
	for _, fl := range it.Fields {
		if fl.Name == name {
			return fl.ID
		}
	}
	t.Fatalf("field %q not found", name)
	return ""
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDocuments_ListCreateAndUpdate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/documents", map[string]string{"title": "Second", "template": model.TemplateManhattan})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Second", created.Title)
	assert.Equal(t, model.TemplateManhattan, created.TemplateID)

	rec = f.do(t, http.MethodGet, "/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Documents []model.Document `json:"documents"`
		Current   string           `json:"current"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Documents, 2)
	assert.Equal(t, f.doc.ID, list.Current)

	rec = f.do(t, http.MethodPatch, "/documents/"+f.doc.ID, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", f.tree(t).Document.Title)

	rec = f.do(t, http.MethodPost, "/documents/"+created.ID+"/use", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, f.b.CurrentDocumentID())
}

func TestDocuments_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/documents/doc-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"NOT_FOUND"`)

	rec = f.do(t, http.MethodPatch, "/documents/"+f.doc.ID, map[string]string{"template": "berlin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"VALIDATION_ERROR"`)

	rec = f.do(t, http.MethodPatch, "/documents/"+f.doc.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader("{"))
	out := httptest.NewRecorder()
	f.h.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestDocuments_Delete(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodDelete, "/documents/"+f.doc.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/documents/"+f.doc.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodDelete, "/documents/"+f.doc.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFieldsUpdateFlowIntoTemplateData(t *testing.T) {
	f := newFixture(t)
	personal := f.section(t, model.SectionPersonalDetails).Items[0]

	rec := f.do(t, http.MethodPatch, "/fields/"+fieldID(t, personal, model.FieldFirstName), map[string]string{"value": "Ada"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodPatch, "/fields/"+fieldID(t, personal, model.FieldLastName), map[string]string{"value": "Lovelace"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/documents/"+f.doc.ID+"/template-data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada")
	assert.Contains(t, rec.Body.String(), "Lovelace")

	rec = f.do(t, http.MethodPatch, "/fields/fld-missing", map[string]string{"value": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItems_AddMoveToggleRemove(t *testing.T) {
	f := newFixture(t)
	jobs := f.section(t, model.SectionEmploymentHistory)
	first := jobs.Items[0].ID

	rec := f.do(t, http.MethodPost, "/sections/"+jobs.ID+"/items", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var added model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, added.ID, f.b.CollapsedItemID())

	rec = f.do(t, http.MethodPost, "/items/"+added.ID+"/move", map[string]int{"position": 1})
	require.Equal(t, http.StatusNoContent, rec.Code)
	items := f.section(t, model.SectionEmploymentHistory).Items
	require.Len(t, items, 2)
	assert.Equal(t, added.ID, items[0].ID)
	assert.Equal(t, first, items[1].ID)

	rec = f.do(t, http.MethodPost, "/items/"+first+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"open":"`+first+`"}`, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/items/"+first, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.b.CollapsedItemID())
	assert.Len(t, f.section(t, model.SectionEmploymentHistory).Items, 1)

	rec = f.do(t, http.MethodPost, "/items/"+first+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItems_StaticSectionRejectsAdd(t *testing.T) {
	f := newFixture(t)
	personal := f.section(t, model.SectionPersonalDetails)
	rec := f.do(t, http.MethodPost, "/sections/"+personal.ID+"/items", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSections_RenameMoveAndMetadata(t *testing.T) {
	f := newFixture(t)
	skills := f.section(t, model.SectionSkills)

	rec := f.do(t, http.MethodPatch, "/sections/"+skills.ID, map[string]string{"title": "Toolbox"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodPatch, "/sections/"+skills.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/sections/"+skills.ID+"/move", map[string]int{"position": 1})
	require.Equal(t, http.StatusNoContent, rec.Code)
	tree := f.tree(t)
	assert.Equal(t, skills.ID, tree.Sections[0].ID)
	assert.Equal(t, "Toolbox", tree.Sections[0].Title)

	rec = f.do(t, http.MethodPut, "/sections/"+skills.ID+"/metadata/"+model.MetaShowExperienceLevel, map[string]bool{"enabled": false})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, f.section(t, model.SectionSkills).Metadata.Enabled(model.MetaShowExperienceLevel))

	rec = f.do(t, http.MethodPut, "/sections/"+skills.ID+"/metadata/bogus", map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewPDF(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/documents/"+f.doc.ID+"/preview.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, model.TemplateLondon, rec.Header().Get("X-Template"))
	assert.Equal(t, "1", rec.Header().Get("X-Page-Count"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = f.do(t, http.MethodGet, "/documents/"+f.doc.ID+"/preview.pdf?page=9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Current-Page"))
	assert.Equal(t, "hit", rec.Header().Get("X-Preview-Cache"))

	rec = f.do(t, http.MethodGet, "/documents/"+f.doc.ID+"/preview.pdf?template=berlin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_TEMPLATE")
}

func TestPreviewPage(t *testing.T) {
	f := newFixture(t)
	personal := f.section(t, model.SectionPersonalDetails).Items[0]
	require.NoError(t, f.b.UpdateField(fieldID(t, personal, model.FieldFirstName), "Ada"))

	rec := f.do(t, http.MethodGet, "/documents/"+f.doc.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="resume-preview"`)
	assert.Contains(t, body, `<h1 id="ada">Ada</h1>`)
	assert.Contains(t, body, "/documents/"+f.doc.ID+"/preview/stream")
}

func TestLive_SnapshotThenChanges(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.h)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/documents/" + f.doc.ID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg liveMsg
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "snapshot", msg.Type)
	require.NotNil(t, msg.Tree)
	assert.Equal(t, f.doc.ID, msg.Tree.Document.ID)

	require.NoError(t, f.b.RenameDocument(f.doc.ID, "Live"))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "change", msg.Type)
	require.NotNil(t, msg.Tree)
	assert.Equal(t, "Live", msg.Tree.Document.Title)

	require.NoError(t, f.b.DeleteDocument(f.doc.ID))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "deleted", msg.Type)
}

func TestLive_RejectsForeignOrigin(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.h)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/documents/" + f.doc.ID + "/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		origin, host string
		want         bool
	}{
		{"http://localhost", "localhost", true},
		{"http://127.0.0.1:8742", "127.0.0.1:8742", true},
		{"http://LOCALHOST:8742", "localhost:8742", true},
		{"http://localhost.evil.com", "localhost", false},
		{"http://evil.com/localhost", "localhost", false},
		{"http://localhost:9999", "localhost:8742", false},
		{"null", "localhost", false},
		{"://bad", "localhost", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sameOrigin(tt.origin, tt.host), "origin %q host %q", tt.origin, tt.host)
	}
}
