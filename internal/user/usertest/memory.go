// Package usertest provides an in-memory user.Repository for tests of dependent packages.
package usertest

import (
	"context"
	"sync"
	"time"

	"property_listing_backend/internal/user"
)

// MemoryRepository stores profiles in a map. FindErr, when set, is returned by every FindByID.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]user.Profile
	FindErr  error
	Finds    int
}

var _ user.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(profiles ...user.Profile) *MemoryRepository {
	r := &MemoryRepository{profiles: make(map[string]user.Profile)}
	for _, p := range profiles {
		r.profiles[p.UID] = p
	}
	return r
}

func (r *MemoryRepository) FindByID(_ context.Context, uid string) (*user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finds++
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	p, ok := r.profiles[uid]
	if !ok {
		return nil, user.ErrProfileNotFound
	}
	p.ID = uid
	return &p, nil
}

func (r *MemoryRepository) Create(_ context.Context, profile *user.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UID] = *profile
	return nil
}

func (r *MemoryRepository) Merge(_ context.Context, uid string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[uid]
	p.UID = uid
	for k, v := range fields {
		switch k {
		case user.FieldEmail:
			p.Email, _ = v.(string)
		case user.FieldDisplayName:
			p.DisplayName, _ = v.(string)
		case user.FieldAddress:
			p.Address, _ = v.(string)
		case user.FieldPhotoURL:
			if s, ok := v.(string); ok {
				p.PhotoURL = &s
			}
		case user.FieldUpdatedAt:
			if t, ok := v.(time.Time); ok {
				p.UpdatedAt = t
			}
		}
	}
	r.profiles[uid] = p
	return nil
}

// Get returns a stored profile without counting as a lookup.
func (r *MemoryRepository) Get(uid string) (user.Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[uid]
	return p, ok
}
