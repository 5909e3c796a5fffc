package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used for tests and environments
// without a MongoDB instance.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Document)}
}

func (s *MemoryStore) InsertOne(_ context.Context, collection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	id, _ := stored["_id"].(string)
	if id == "" {
		id = uuid.NewString()
		stored["_id"] = id
	}
	s.collections[collection] = append(s.collections[collection], stored)
	return id, nil
}

func (s *MemoryStore) FindOne(_ context.Context, collection string, filter Filter) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			return clone(doc), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Find(_ context.Context, collection string, filter Filter, opts *FindOptions) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Document
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			out = append(out, clone(doc))
		}
	}
	if opts != nil {
		for i := len(opts.Sort) - 1; i >= 0; i-- {
			key := opts.Sort[i]
			sort.SliceStable(out, func(a, b int) bool {
				less := compare(out[a][key.Field], out[b][key.Field]) < 0
				if key.Desc {
					return !less && compare(out[a][key.Field], out[b][key.Field]) != 0
				}
				return less
			})
		}
		if opts.Limit > 0 && int64(len(out)) > opts.Limit {
			out = out[:opts.Limit]
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateOne(_ context.Context, collection string, filter Filter, update Update) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			apply(doc, update)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) UpdateMany(_ context.Context, collection string, filter Filter, update Update) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			apply(doc, update)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) DeleteOne(_ context.Context, collection string, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if matches(doc, filter) {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) DeleteMany(_ context.Context, collection string, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []Document
	var n int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			n++
			continue
		}
		kept = append(kept, doc)
	}
	s.collections[collection] = kept
	return n, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(context.Context) error {
	return nil
}

func matches(doc Document, filter Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || compare(got, want) != 0 {
			return false
		}
	}
	return true
}

func apply(doc Document, update Update) {
	for field, value := range update {
		doc[field] = value
	}
}

func clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// compare orders two field values of the same general kind; mismatched
// kinds fall back to their formatted representations.
func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	default:
		if af, ok := toFloat(a); ok {
			if bf, ok := toFloat(b); ok {
				switch {
				case af < bf:
					return -1
				case af > bf:
					return 1
				}
				return 0
			}
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
