// Package memory is the in-process docstore backend used for development
// and tests. It is not durable.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

func NewStore() *Store {
	return &Store{collections: make(map[string]*Collection)}
}

func (s *Store) Collection(name string) docstore.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = newCollection()
		s.collections[name] = c
	}
	return c
}

type record struct {
	seq     uint64
	version int64
	data    []byte
	fields  map[string]any
}

type Collection struct {
	mu   sync.RWMutex
	docs map[string]*record
	seq  uint64
}

func newCollection() *Collection {
	return &Collection{docs: make(map[string]*record)}
}

func (c *Collection) FindByID(_ context.Context, id string, out any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	return json.Unmarshal(rec.data, out)
}

func (c *Collection) FindByIDs(_ context.Context, ids []string, out any) error {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var picked []*record
	for id, rec := range c.docs {
		if _, ok := want[id]; ok {
			picked = append(picked, rec)
		}
	}
	return decodeSorted(picked, out)
}

func (c *Collection) FindOne(_ context.Context, filter docstore.Filter, out any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched, err := c.match(filter)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return docstore.ErrNotFound
	}
	return json.Unmarshal(matched[0].data, out)
}

func (c *Collection) FindMany(_ context.Context, filter docstore.Filter, out any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched, err := c.match(filter)
	if err != nil {
		return err
	}
	return decodeSorted(matched, out)
}

func (c *Collection) Insert(_ context.Context, id string, doc any) error {
	if id == "" {
		return fmt.Errorf("memory: id is required")
	}
	rec, err := encode(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; exists {
		return docstore.ErrDuplicate
	}
	c.seq++
	rec.seq = c.seq
	rec.version = 1
	c.docs[id] = rec
	return nil
}

func (c *Collection) Replace(_ context.Context, id string, expectedVersion int64, doc any) error {
	rec, err := encode(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	if current.version != expectedVersion {
		return docstore.ErrConflict
	}
	rec.seq = current.seq
	rec.version = expectedVersion + 1
	c.docs[id] = rec
	return nil
}

func (c *Collection) DeleteByID(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(c.docs, id)
	return nil
}

func (c *Collection) DeleteOne(_ context.Context, filter docstore.Filter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched, err := c.match(filter)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return docstore.ErrNotFound
	}
	for id, rec := range c.docs {
		if rec == matched[0] {
			delete(c.docs, id)
			break
		}
	}
	return nil
}

// match returns the records satisfying filter in insertion order. Callers
// hold c.mu.
func (c *Collection) match(filter docstore.Filter) ([]*record, error) {
	want := make(map[string]any, len(filter))
	for k, v := range filter {
		norm, err := docstore.Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("memory: filter %q: %w", k, err)
		}
		want[k] = norm
	}

	var out []*record
	for _, rec := range c.docs {
		if matches(rec.fields, want) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out, nil
}

func matches(fields, want map[string]any) bool {
	for k, v := range want {
		got, ok := fields[k]
		if !ok || !reflect.DeepEqual(got, v) {
			return false
		}
	}
	return true
}

func encode(doc any) (*record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("memory: encode document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("memory: document must be an object: %w", err)
	}
	return &record{data: data, fields: fields}, nil
}

func decodeSorted(recs []*record, out any) error {
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	raws := make([][]byte, len(recs))
	for i, rec := range recs {
		raws[i] = rec.data
	}
	return docstore.DecodeAll(raws, out)
}
