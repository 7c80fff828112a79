package e2e

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/product-live-catalog/internal/models/m_document"
)

// mustFetchDocument reads one stored record straight from the documents table.
func mustFetchDocument(ctx context.Context, t *testing.T, client *spanner.Client, collection, key string) map[string]any {
	t.Helper()

	row, err := client.Single().ReadRow(ctx, m_document.TableName,
		spanner.Key{collection, key}, []string{m_document.ColPayload})
	require.NoError(t, err)

	var payload string
	require.NoError(t, row.Columns(&payload))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))
	return doc
}

// documentExists reports whether a record is stored under key.
func documentExists(ctx context.Context, t *testing.T, client *spanner.Client, collection, key string) bool {
	t.Helper()

	_, err := client.Single().ReadRow(ctx, m_document.TableName,
		spanner.Key{collection, key}, []string{m_document.ColDocID})
	if spanner.ErrCode(err) == codes.NotFound {
		return false
	}
	require.NoError(t, err)
	return true
}
