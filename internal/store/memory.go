package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Memory keeps every collection in process. Documents are stored in their
// JSON form so values compare the same way they would after a round trip
// through a real backend.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]map[string]any
}

func NewMemory() *Memory {
	return &Memory{collections: map[string][]map[string]any{}}
}

func (m *Memory) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name}
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}

type memoryCollection struct {
	store *Memory
	name  string
}

func (c *memoryCollection) Name() string {
	return c.name
}

func (c *memoryCollection) FindOne(_ context.Context, filter Filter, out any) (bool, error) {
	criteria, err := toDocument(filter)
	if err != nil {
		return false, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	for _, doc := range c.store.collections[c.name] {
		if !matches(doc, criteria) {
			continue
		}

		raw, err := json.Marshal(doc)
		if err != nil {
			return false, fmt.Errorf("encode document: %w", err)
		}
		return true, decodeDocument(raw, out)
	}

	return false, nil
}

func (c *memoryCollection) Find(_ context.Context, filter Filter, opts FindOptions, out any) error {
	criteria, err := toDocument(filter)
	if err != nil {
		return err
	}

	c.store.mu.RLock()
	matched := make([]map[string]any, 0)
	for _, doc := range c.store.collections[c.name] {
		if matches(doc, criteria) {
			matched = append(matched, doc)
		}
	}

	if opts.SortField != "" {
		sort.SliceStable(matched, func(i int, j int) bool {
			cmp := compareValues(matched[i][opts.SortField], matched[j][opts.SortField])
			if opts.SortOrder == Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	docs := make([]json.RawMessage, 0, len(matched))
	for _, doc := range matched {
		raw, marshalErr := json.Marshal(doc)
		if marshalErr != nil {
			c.store.mu.RUnlock()
			return fmt.Errorf("encode document: %w", marshalErr)
		}
		docs = append(docs, raw)
	}
	c.store.mu.RUnlock()

	return decodeDocuments(docs, out)
}

func (c *memoryCollection) InsertOne(_ context.Context, v any) (InsertResult, error) {
	doc, err := toDocument(v)
	if err != nil {
		return InsertResult{}, err
	}
	id := ensureID(doc)

	c.store.mu.Lock()
	c.store.collections[c.name] = append(c.store.collections[c.name], doc)
	c.store.mu.Unlock()

	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *memoryCollection) UpdateOne(_ context.Context, filter Filter, update Update, upsert bool) (UpdateResult, error) {
	criteria, err := toDocument(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	set, err := toDocument(update.Set)
	if err != nil {
		return UpdateResult{}, err
	}
	setOnInsert, err := toDocument(update.SetOnInsert)
	if err != nil {
		return UpdateResult{}, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	result := UpdateResult{Acknowledged: true}
	for _, doc := range c.store.collections[c.name] {
		if !matches(doc, criteria) {
			continue
		}

		result.MatchedCount = 1
		for k, v := range set {
			if !reflect.DeepEqual(doc[k], v) {
				doc[k] = v
				result.ModifiedCount = 1
			}
		}
		return result, nil
	}

	if !upsert {
		return result, nil
	}

	doc := map[string]any{}
	mergeInto(doc, criteria, setOnInsert, set)
	id := ensureID(doc)
	c.store.collections[c.name] = append(c.store.collections[c.name], doc)

	result.UpsertedCount = 1
	result.UpsertedID = &id
	return result, nil
}

func (c *memoryCollection) DeleteOne(_ context.Context, filter Filter) (DeleteResult, error) {
	criteria, err := toDocument(filter)
	if err != nil {
		return DeleteResult{}, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.store.collections[c.name]
	for i, doc := range docs {
		if !matches(doc, criteria) {
			continue
		}

		c.store.collections[c.name] = append(docs[:i:i], docs[i+1:]...)
		return DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
	}

	return DeleteResult{Acknowledged: true}, nil
}

func matches(doc map[string]any, criteria map[string]any) bool {
	for k, want := range criteria {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

// compareValues orders missing < bool < number < string, like a document
// database comparing mixed BSON types.
func compareValues(a any, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case string:
		return strings.Compare(av, b.(string))
	case bool:
		bv := b.(bool)
		if av != bv {
			if !av {
				return -1
			}
			return 1
		}
	}

	return 0
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}
