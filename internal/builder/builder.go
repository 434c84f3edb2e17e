// Package builder is the in-memory editing session shared by the TUI and the web server.
// Mutations apply synchronously, notify subscribers, and are persisted in the background.
package builder

import (
	"context"
	"strings"
	"sync"
	"time"

	"vitae-cli/internal/model"
	"vitae-cli/internal/mutate"
	"vitae-cli/internal/store"
	"vitae-cli/internal/templatedata"
)

type Options struct {
	// Debounce delays saves so a burst of edits is written once. Defaults to 500ms.
	Debounce time.Duration
	// OnError receives persistence failures. Failed saves are not retried until the next change.
	OnError func(error)
	Now     func() time.Time
}

type Builder struct {
	mu        sync.Mutex
	db        *store.DB
	events    []pendingEvent
	collapsed string
	now       func() time.Time

	hub       *hub
	persister *persister
	onError   func(error)
}

// Open loads the workspace state from st and starts a session over it.
func Open(ctx context.Context, st store.Store, opts Options) (*Builder, error) {
	if err := st.Ensure(); err != nil {
		return nil, err
	}
	db, err := st.LoadSQLite(ctx)
	if err != nil {
		return nil, err
	}
	return New(db, st, opts), nil
}

func New(db *store.DB, backend Backend, opts Options) *Builder {
	if db == nil {
		db = &store.DB{}
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	b := &Builder{
		db:      db,
		now:     now,
		hub:     newHub(),
		onError: opts.OnError,
	}
	b.persister = &persister{
		backend:  backend,
		debounce: debounce,
		snapshot: b.snapshotForSave,
		requeue:  b.requeue,
		failed:   b.saveFailed,
	}
	return b
}

// Subscribe returns a channel of applied changes and a cancel func that closes it.
func (b *Builder) Subscribe() (<-chan Change, func()) {
	return b.hub.subscribe()
}

// Flush blocks until every change so far has been handed to the backend.
func (b *Builder) Flush(ctx context.Context) error {
	return b.persister.flush(ctx)
}

// Close flushes and stops background saves. Mutations after Close are kept in memory only.
func (b *Builder) Close(ctx context.Context) error {
	return b.persister.close(ctx)
}

func (b *Builder) snapshotForSave() (*store.DB, []pendingEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return b.db.Clone(), events
}

func (b *Builder) requeue(events []pendingEvent) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	b.events = append(append([]pendingEvent{}, events...), b.events...)
	b.mu.Unlock()
}

func (b *Builder) saveFailed(err error) {
	b.hub.broadcast(Change{Type: "save.error", Err: err})
	if b.onError != nil {
		b.onError(err)
	}
}

// View runs fn with read access to the live state. fn must not retain db or mutate it.
func (b *Builder) View(fn func(db *store.DB)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.db)
}

// Snapshot returns a deep copy of the current state.
func (b *Builder) Snapshot() *store.DB {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.Clone()
}

func (b *Builder) CurrentDocumentID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.CurrentDocumentID
}

// TemplateData maps a document (the current one when documentID is empty) for rendering.
func (b *Builder) TemplateData(documentID string) (templatedata.Resume, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if strings.TrimSpace(documentID) == "" {
		documentID = b.db.CurrentDocumentID
	}
	return templatedata.Build(b.db, documentID)
}

// CollapsedItemID is the one collapsible item currently expanded, "" when all are closed.
func (b *Builder) CollapsedItemID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.collapsed
}

// ToggleItem expands itemID, closing any other; toggling the open item closes it.
func (b *Builder) ToggleItem(itemID string) string {
	b.mu.Lock()
	if b.collapsed == itemID {
		b.collapsed = ""
	} else {
		b.collapsed = itemID
	}
	open := b.collapsed
	b.mu.Unlock()
	b.hub.broadcast(Change{Type: "ui.toggle", EntityID: itemID})
	return open
}

// commit records a journal entry, notifies subscribers and schedules a save. Called without b.mu.
func (b *Builder) commit(typ, documentID, entityID string, payload map[string]any) {
	b.mu.Lock()
	b.events = append(b.events, pendingEvent{typ: typ, entityID: entityID, payload: payload})
	b.mu.Unlock()
	b.hub.broadcast(Change{Type: typ, DocumentID: documentID, EntityID: entityID})
	b.persister.notify()
}

func (b *Builder) CreateDocument(title, templateID string) (model.Document, error) {
	b.mu.Lock()
	res, err := mutate.CreateDocument(b.db, title, templateID, b.now())
	var doc model.Document
	if err == nil && res.Document != nil {
		doc = *res.Document
	}
	b.mu.Unlock()
	if err != nil {
		return model.Document{}, err
	}
	b.commit(mutate.EventDocumentCreate, doc.ID, doc.ID, res.EventPayload)
	return doc, nil
}

func (b *Builder) RenameDocument(documentID, title string) error {
	b.mu.Lock()
	res, err := mutate.RenameDocument(b.db, documentID, title, b.now())
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if res.Changed {
		b.commit(mutate.EventDocumentRename, documentID, documentID, res.EventPayload)
	}
	return nil
}

func (b *Builder) SetDocumentTemplate(documentID, templateID string) error {
	b.mu.Lock()
	res, err := mutate.SetDocumentTemplate(b.db, documentID, templateID, b.now())
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if res.Changed {
		b.commit(mutate.EventDocumentTemplate, documentID, documentID, res.EventPayload)
	}
	return nil
}

func (b *Builder) DeleteDocument(documentID string) error {
	b.mu.Lock()
	res, err := mutate.DeleteDocument(b.db, documentID)
	if err == nil && b.collapsed != "" {
		if _, ok := b.db.FindItem(b.collapsed); !ok {
			b.collapsed = ""
		}
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.commit(mutate.EventDocumentDelete, res.DocumentID, res.DocumentID, res.EventPayload)
	return nil
}

// UseDocument makes documentID the current document.
func (b *Builder) UseDocument(documentID string) error {
	documentID = strings.TrimSpace(documentID)
	b.mu.Lock()
	if _, ok := b.db.FindDocument(documentID); !ok {
		b.mu.Unlock()
		return mutate.NotFoundError{Kind: "document", ID: documentID}
	}
	changed := b.db.CurrentDocumentID != documentID
	b.db.CurrentDocumentID = documentID
	if changed {
		b.collapsed = ""
	}
	b.mu.Unlock()
	if changed {
		b.commit(mutate.EventDocumentUse, documentID, documentID, nil)
	}
	return nil
}

// AddItem appends an empty entry and expands it.
func (b *Builder) AddItem(sectionID string) (model.Item, error) {
	b.mu.Lock()
	res, err := mutate.AddItem(b.db, sectionID, b.now())
	var it model.Item
	if err == nil {
		it = *res.Item
		b.collapsed = it.ID
	}
	b.mu.Unlock()
	if err != nil {
		return model.Item{}, err
	}
	b.commit(mutate.EventItemAdd, res.DocumentID, it.ID, res.EventPayload)
	return it, nil
}

func (b *Builder) RemoveItem(itemID string) error {
	b.mu.Lock()
	res, err := mutate.RemoveItem(b.db, itemID, b.now())
	if err == nil && b.collapsed == res.ItemID {
		b.collapsed = ""
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.commit(mutate.EventItemRemove, res.DocumentID, res.ItemID, res.EventPayload)
	return nil
}

func (b *Builder) MoveItem(itemID string, toPosition int) error {
	b.mu.Lock()
	res, err := mutate.MoveItem(b.db, itemID, toPosition, b.now())
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if res.Changed {
		b.commit(mutate.EventItemMove, res.DocumentID, res.ID, res.EventPayload)
	}
	return nil
}

func (b *Builder) MoveSection(sectionID string, toPosition int) error {
	b.mu.Lock()
	res, err := mutate.MoveSection(b.db, sectionID, toPosition, b.now())
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if res.Changed {
		b.commit(mutate.EventSectionMove, res.DocumentID, res.ID, res.EventPayload)
	}
	return nil
}

func (b *Builder) RenameSection(sectionID, title string) error {
	b.mu.Lock()
	res, err := mutate.RenameSection(b.db, sectionID, title, b.now())
	var documentID string
	if res.Section != nil {
		documentID = res.Section.DocumentID
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if res.Changed {
		b.commit(mutate.EventSectionRename, documentID, sectionID, res.EventPayload)
	}
	return nil
}

func (b *Builder) SetSectionMetadata(sectionID, key string, on bool) error {
	b.mu.Lock()
	res, err := mutate.SetSectionMetadata(b.db, sectionID, key, on, b.now())
	var documentID string
	if res.Section != nil {
		documentID = res.Section.DocumentID
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if res.Changed {
		b.commit(mutate.EventSectionMetadata, documentID, sectionID, res.EventPayload)
	}
	return nil
}

// UpdateField stores a value; last write wins.
func (b *Builder) UpdateField(fieldID, value string) error {
	b.mu.Lock()
	res, err := mutate.UpdateField(b.db, fieldID, value, b.now())
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if res.Changed {
		b.commit(mutate.EventFieldUpdate, res.DocumentID, fieldID, res.EventPayload)
	}
	return nil
}
