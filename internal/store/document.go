package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// The memory and postgres backends keep documents as JSON objects; these
// helpers convert between typed values and that representation.

func toDocument(v any) (map[string]any, error) {
	doc := map[string]any{}
	if v == nil {
		return doc, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}

	return doc, nil
}

func decodeDocument(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func decodeDocuments(docs []json.RawMessage, out any) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	return nil
}

func ensureID(doc map[string]any) string {
	if id, ok := doc[IDField].(string); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	doc[IDField] = id
	return id
}

func mergeInto(dst map[string]any, sources ...map[string]any) {
	for _, src := range sources {
		for k, v := range src {
			dst[k] = v
		}
	}
}
