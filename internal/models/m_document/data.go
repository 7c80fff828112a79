package m_document

import (
	"cloud.google.com/go/spanner"
)

// BuildUpsertMap prepares the canonical row for a document write.
// updated_at is always the commit timestamp.
func BuildUpsertMap(collection, docID, payload string) map[string]interface{} {
	return map[string]interface{}{
		ColCollection: collection,
		ColDocID:      docID,
		ColPayload:    payload,
		ColUpdatedAt:  spanner.CommitTimestamp,
	}
}

// UpsertMutation builds an InsertOrUpdate mutation from a values map.
// Key columns are placed first.
func UpsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols := []string{ColCollection, ColDocID}
	vals := []interface{}{values[ColCollection], values[ColDocID]}
	for col, v := range values {
		if col == ColCollection || col == ColDocID {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.InsertOrUpdate(TableName, cols, vals)
}

// DeleteMutation removes a single document by primary key.
func DeleteMutation(collection, docID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{collection, docID})
}
