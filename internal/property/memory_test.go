package property

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memoryRepository is an in-memory Repository that assigns increasing creation times.
type memoryRepository struct {
	mu     sync.Mutex
	docs   map[string]*Property
	seq    int
	clock  time.Time
	writes int
	err    error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		docs:  make(map[string]*Property),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func clone(p *Property) *Property {
	c := *p
	c.Fields = make(map[string]interface{}, len(p.Fields))
	for k, v := range p.Fields {
		c.Fields[k] = v
	}
	return &c
}

func (r *memoryRepository) List(_ context.Context, ownerID string) ([]*Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*Property, 0)
	for _, p := range r.docs {
		if ownerID == "" || p.UserID == ownerID {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.docs[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	return clone(p), nil
}

func (r *memoryRepository) Create(_ context.Context, userID string, fields map[string]interface{}) (*Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.seq++
	r.writes++
	now := r.tick()
	data := map[string]interface{}{FieldUserID: userID, FieldCreatedAt: now, FieldUpdatedAt: now}
	for k, v := range fields {
		data[k] = v
	}
	p := fromData(fmt.Sprintf("p%d", r.seq), data)
	r.docs[p.ID] = p
	return clone(p), nil
}

func (r *memoryRepository) Update(_ context.Context, id string, fields map[string]interface{}) (*Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.docs[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	r.writes++
	for k, v := range fields {
		if k == FieldSlug {
			p.Slug, _ = v.(string)
			continue
		}
		p.Fields[k] = v
	}
	p.UpdatedAt = r.tick()
	return clone(p), nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.docs[id]; !ok {
		return errors.New("missing")
	}
	r.writes++
	delete(r.docs, id)
	return nil
}

func (r *memoryRepository) OwnerIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var ids []string
	for _, p := range r.docs {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memoryRepository) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
