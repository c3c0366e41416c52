package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory DocStore used by handler tests. It mirrors
// PostgresStore semantics including version bumps and field filtering.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]memDoc
	seq  int64
}

type memDoc struct {
	data    []byte
	version int64
	order   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]memDoc)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[collection][id]
	if !ok {
		return Doc{}, ErrNotFound
	}
	cp := make([]byte, len(d.data))
	copy(cp, d.data)
	return Doc{ID: id, Data: cp, Version: d.version}, nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.data[collection]
	if !ok {
		coll = make(map[string]memDoc)
		s.data[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return fmt.Errorf("duplicate document %s/%s", collection, id)
	}
	s.seq++
	cp := make([]byte, len(data))
	copy(cp, data)
	coll[id] = memDoc{data: cp, version: 1, order: s.seq}
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, collection, id string, data []byte, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	if d.version != version {
		return ErrVersionConflict
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	d.data = cp
	d.version++
	s.data[collection][id] = d
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.data[collection], id)
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filters map[string]string, offset, limit int) ([]Doc, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type ordered struct {
		doc   Doc
		order int64
	}
	var matched []ordered
	for id, d := range s.data[collection] {
		if !matchesFilters(d.data, filters) {
			continue
		}
		cp := make([]byte, len(d.data))
		copy(cp, d.data)
		matched = append(matched, ordered{doc: Doc{ID: id, Data: cp, Version: d.version}, order: d.order})
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].order < matched[j].order })

	count := len(matched)
	if offset > count {
		offset = count
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	docs := make([]Doc, 0, len(matched))
	for _, m := range matched {
		docs = append(docs, m.doc)
	}
	return docs, count, nil
}

func (s *MemoryStore) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// matchesFilters compares top-level fields against string values the way
// Postgres doc->>field does: numbers and booleans stringified, nulls never
// matching.
func matchesFilters(data []byte, filters map[string]string) bool {
	if len(filters) == 0 {
		return true
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	for field, want := range filters {
		v, ok := fields[field]
		if !ok || v == nil {
			return false
		}
		var got string
		switch t := v.(type) {
		case string:
			got = t
		case bool:
			got = fmt.Sprintf("%t", t)
		case float64:
			got = fmt.Sprintf("%g", t)
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}
