package mutate

// Journal event types, one per mutation.
const (
	EventDocumentCreate   = "document.create"
	EventDocumentRename   = "document.rename"
	EventDocumentTemplate = "document.template"
	EventDocumentDelete   = "document.delete"
	EventDocumentUse      = "document.use"
	EventSectionMove      = "section.move"
	EventSectionRename    = "section.rename"
	EventSectionMetadata  = "section.metadata"
	EventItemAdd          = "item.add"
	EventItemRemove       = "item.remove"
	EventItemMove         = "item.move"
	EventFieldUpdate      = "field.update"
)
