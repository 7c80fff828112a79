package storesvc

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
)

// Wire field names of the Struct messages.
const (
	fieldCollection = "collection"
	fieldKey        = "key"
	fieldDoc        = "doc"
	fieldEntries    = "entries"
	fieldError      = "error"
)

var errMalformed = errors.New("malformed message")

// RemoteError is a subscription error reported by the server in-band.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return "remote store: " + e.Message }

func encodeSnapshot(snap *docstore.Snapshot) (*structpb.Struct, error) {
	entries := make([]*structpb.Value, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		doc, err := structpb.NewStruct(map[string]any(e.Doc))
		if err != nil {
			return nil, fmt.Errorf("encode %s/%s: %w", snap.Collection, e.Key, err)
		}
		entries = append(entries, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			fieldKey: structpb.NewStringValue(e.Key),
			fieldDoc: structpb.NewStructValue(doc),
		}}))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldCollection: structpb.NewStringValue(snap.Collection),
		fieldEntries:    structpb.NewListValue(&structpb.ListValue{Values: entries}),
	}}, nil
}

func encodeError(err error) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldError: structpb.NewStringValue(err.Error()),
	}}
}

// decodeEvent turns a stream message back into a subscription event.
func decodeEvent(msg *structpb.Struct) docstore.Event {
	fields := msg.GetFields()
	if v, ok := fields[fieldError]; ok {
		return docstore.Event{Err: &RemoteError{Message: v.GetStringValue()}}
	}

	snap := &docstore.Snapshot{Collection: fields[fieldCollection].GetStringValue()}
	values := fields[fieldEntries].GetListValue().GetValues()
	snap.Entries = make([]docstore.Entry, 0, len(values))
	for i, v := range values {
		entry := v.GetStructValue()
		key := entry.GetFields()[fieldKey].GetStringValue()
		if key == "" {
			return docstore.Event{Err: fmt.Errorf("%w: entry %d has no key", errMalformed, i)}
		}
		doc := docstore.Document(entry.GetFields()[fieldDoc].GetStructValue().AsMap())
		snap.Entries = append(snap.Entries, docstore.Entry{Key: key, Doc: doc})
	}
	return docstore.Event{Snapshot: snap}
}

func encodeWrite(collection, key string, doc docstore.Document) (*structpb.Struct, error) {
	body, err := structpb.NewStruct(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	req := encodePath(collection, key)
	req.Fields[fieldDoc] = structpb.NewStructValue(body)
	return req, nil
}

func encodePath(collection, key string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldCollection: structpb.NewStringValue(collection),
		fieldKey:        structpb.NewStringValue(key),
	}}
}

func decodePath(req *structpb.Struct) (collection, key string) {
	fields := req.GetFields()
	return fields[fieldCollection].GetStringValue(), fields[fieldKey].GetStringValue()
}

// decodeWrite returns a nil document when the request carries none.
func decodeWrite(req *structpb.Struct) (collection, key string, doc docstore.Document) {
	collection, key = decodePath(req)
	if v, ok := req.GetFields()[fieldDoc]; ok && v.GetStructValue() != nil {
		doc = docstore.Document(v.GetStructValue().AsMap())
	}
	return collection, key, doc
}
