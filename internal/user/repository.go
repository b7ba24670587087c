// File: internal/user/repository.go
package user

import (
	"context"
	"fmt"

	"property_listing_backend/internal/platform/database"

	"cloud.google.com/go/firestore"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	FindByID(ctx context.Context, uid string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Merge(ctx context.Context, uid string, fields map[string]interface{}) error
}

type firestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a profile repository over the users collection.
func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(database.UsersCollection).Doc(uid)
}

// FindByID retrieves the profile document for uid, or ErrProfileNotFound.
func (r *firestoreRepository) FindByID(ctx context.Context, uid string) (*Profile, error) {
	if !database.ValidDocumentID(uid) {
		return nil, ErrProfileNotFound
	}
	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", uid, err)
	}

	var p Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", uid, err)
	}
	p.ID = snap.Ref.ID
	if p.UID == "" {
		p.UID = snap.Ref.ID
	}
	return &p, nil
}

// Create writes the whole profile document, replacing any existing one.
func (r *firestoreRepository) Create(ctx context.Context, profile *Profile) error {
	if !database.ValidDocumentID(profile.UID) {
		return fmt.Errorf("invalid profile id %q", profile.UID)
	}
	if _, err := r.doc(profile.UID).Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile %s: %w", profile.UID, err)
	}
	return nil
}

// Merge writes only the given fields, creating the document if needed.
func (r *firestoreRepository) Merge(ctx context.Context, uid string, fields map[string]interface{}) error {
	if !database.ValidDocumentID(uid) {
		return fmt.Errorf("invalid profile id %q", uid)
	}
	if _, err := r.doc(uid).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge profile %s: %w", uid, err)
	}
	return nil
}
