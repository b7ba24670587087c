// File: internal/property/repository.go
package property

import (
	"context"
	"errors"
	"fmt"
	"time"

	"property_listing_backend/internal/platform/database"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Repository defines the interface for property data operations.
type Repository interface {
	// List returns properties newest first, restricted to ownerID when it is non-empty.
	List(ctx context.Context, ownerID string) ([]*Property, error)
	FindByID(ctx context.Context, id string) (*Property, error)
	// Create stores a new property owned by userID with server-assigned timestamps.
	Create(ctx context.Context, userID string, fields map[string]interface{}) (*Property, error)
	// Update replaces the given top-level fields, refreshes updatedAt and returns the stored result.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*Property, error)
	Delete(ctx context.Context, id string) error
	// OwnerIDs returns the distinct userId values referenced by stored properties.
	OwnerIDs(ctx context.Context) ([]string, error)
}

type firestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a property repository over the properties collection.
func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(database.PropertiesCollection)
}

func (r *firestoreRepository) List(ctx context.Context, ownerID string) ([]*Property, error) {
	query := r.collection().Query
	if ownerID != "" {
		query = query.Where(FieldUserID, "==", ownerID)
	}
	iter := query.OrderBy(FieldCreatedAt, firestore.Desc).Documents(ctx)
	defer iter.Stop()

	properties := make([]*Property, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list properties: %w", err)
		}
		properties = append(properties, fromSnapshot(snap))
	}
	return properties, nil
}

func (r *firestoreRepository) FindByID(ctx context.Context, id string) (*Property, error) {
	if !database.ValidDocumentID(id) {
		return nil, ErrPropertyNotFound
	}
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	return fromSnapshot(snap), nil
}

func (r *firestoreRepository) Create(ctx context.Context, userID string, fields map[string]interface{}) (*Property, error) {
	data := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		data[k] = v
	}
	data[FieldUserID] = userID
	data[FieldCreatedAt] = firestore.ServerTimestamp
	data[FieldUpdatedAt] = firestore.ServerTimestamp

	ref, _, err := r.collection().Add(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read back property %s: %w", ref.ID, err)
	}
	return fromSnapshot(snap), nil
}

func (r *firestoreRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*Property, error) {
	if !database.ValidDocumentID(id) {
		return nil, ErrPropertyNotFound
	}
	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	updates = append(updates, firestore.Update{Path: FieldUpdatedAt, Value: firestore.ServerTimestamp})

	ref := r.collection().Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		if database.IsNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to update property %s: %w", id, err)
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read back property %s: %w", id, err)
	}
	return fromSnapshot(snap), nil
}

func (r *firestoreRepository) Delete(ctx context.Context, id string) error {
	if !database.ValidDocumentID(id) {
		return ErrPropertyNotFound
	}
	if _, err := r.collection().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	return nil
}

func (r *firestoreRepository) OwnerIDs(ctx context.Context) ([]string, error) {
	iter := r.collection().Select(FieldUserID).Documents(ctx)
	defer iter.Stop()

	seen := make(map[string]struct{})
	var ids []string
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan property owners: %w", err)
		}
		uid, _ := snap.Data()[FieldUserID].(string)
		if uid == "" {
			continue
		}
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		ids = append(ids, uid)
	}
	return ids, nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) *Property {
	return fromData(snap.Ref.ID, snap.Data())
}

func fromData(id string, data map[string]interface{}) *Property {
	p := &Property{ID: id, Fields: make(map[string]interface{}, len(data))}
	for k, v := range data {
		switch k {
		case FieldUserID:
			p.UserID, _ = v.(string)
		case FieldSlug:
			p.Slug, _ = v.(string)
		case FieldCreatedAt:
			p.CreatedAt, _ = v.(time.Time)
		case FieldUpdatedAt:
			p.UpdatedAt, _ = v.(time.Time)
		case FieldID, FieldOwner, FieldIsOwnProperty:
		default:
			p.Fields[k] = v
		}
	}
	return p
}
