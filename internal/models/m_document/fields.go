package m_document

// Field constants for the documents table.
const (
	TableName = "documents"

	ColCollection = "collection"
	ColDocID      = "doc_id"
	ColPayload    = "payload"
	ColUpdatedAt  = "updated_at"
)
