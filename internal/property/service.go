package property

import (
	"context"
	"errors"

	"property_listing_backend/internal/common"
	"property_listing_backend/internal/identity"
	"property_listing_backend/internal/owner"
	"property_listing_backend/internal/user"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the property business logic. Every operation acts on behalf of caller.
type Service interface {
	List(ctx context.Context, caller *identity.Identity, onlyMine bool) ([]Response, error)
	ListByUser(ctx context.Context, caller *identity.Identity, targetUserID string) ([]Response, error)
	Get(ctx context.Context, caller *identity.Identity, id string) (*Response, error)
	Create(ctx context.Context, caller *identity.Identity, body map[string]interface{}) (*Response, error)
	Update(ctx context.Context, caller *identity.Identity, id string, body map[string]interface{}) (*Response, error)
	Delete(ctx context.Context, caller *identity.Identity, id string) error
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	profiles user.Service
	userRepo user.Repository
	owners   *owner.Enricher
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new property service.
func NewService(repo Repository, profiles user.Service, userRepo user.Repository, owners *owner.Enricher, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		profiles: profiles,
		userRepo: userRepo,
		owners:   owners,
		logger:   logger.Named("PropertyService"),
	}
}

func (s *ServiceImplementation) List(ctx context.Context, caller *identity.Identity, onlyMine bool) ([]Response, error) {
	ownerID := ""
	if onlyMine {
		ownerID = caller.UserID
	}
	props, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return []Response{}, nil
	}

	ownerIDs := make([]string, 0, len(props))
	for _, p := range props {
		ownerIDs = append(ownerIDs, p.UserID)
	}
	views := s.owners.ResolveAll(ctx, ownerIDs)

	out := make([]Response, 0, len(props))
	for _, p := range props {
		out = append(out, Response{
			Property:      p,
			Owner:         views[p.UserID],
			IsOwnProperty: p.UserID == caller.UserID,
		})
	}
	return out, nil
}

func (s *ServiceImplementation) ListByUser(ctx context.Context, caller *identity.Identity, targetUserID string) ([]Response, error) {
	props, err := s.repo.List(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return []Response{}, nil
	}

	view := s.owners.Resolve(ctx, targetUserID)
	out := make([]Response, 0, len(props))
	for _, p := range props {
		out = append(out, Response{
			Property:      p,
			Owner:         view,
			IsOwnProperty: targetUserID == caller.UserID,
		})
	}
	return out, nil
}

func (s *ServiceImplementation) Get(ctx context.Context, caller *identity.Identity, id string) (*Response, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Response{
		Property:      p,
		Owner:         s.owners.Resolve(ctx, p.UserID),
		IsOwnProperty: p.UserID == caller.UserID,
	}, nil
}

func (s *ServiceImplementation) Create(ctx context.Context, caller *identity.Identity, body map[string]interface{}) (*Response, error) {
	fields := ClientFields(body)
	if missing := MissingRequiredFields(fields); len(missing) > 0 {
		return nil, common.ErrMissingFields.WithMissingFields(missing)
	}

	hints := user.ProfileHints{
		DisplayName: stringField(fields, FieldOwnerName),
		Phone:       stringField(fields, FieldOwnerPhone),
	}
	profile, created, err := s.profiles.EnsureProfile(ctx, caller.UserID, hints)
	if err != nil {
		// The property is still created; the owner view falls back to token data and hints.
		s.logger.Warn("Could not resolve creator profile, using fallback owner",
			zap.String("userID", caller.UserID), zap.Error(err))
		profile = nil
	} else if created {
		s.logger.Info("Profile created for first-time lister", zap.String("userID", caller.UserID))
	}

	fields[FieldSlug] = slug.Make(stringField(fields, FieldName))
	p, err := s.repo.Create(ctx, caller.UserID, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Property created", zap.String("propertyID", p.ID), zap.String("userID", caller.UserID))

	return &Response{
		Property:      p,
		Owner:         owner.ForNewProperty(caller, profile, hints),
		IsOwnProperty: true,
	}, nil
}

func (s *ServiceImplementation) Update(ctx context.Context, caller *identity.Identity, id string, body map[string]interface{}) (*Response, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != caller.UserID {
		s.logger.Warn("Rejected update of foreign property",
			zap.String("propertyID", id), zap.String("userID", caller.UserID))
		return nil, ErrUpdateForbidden
	}

	fields := ClientFields(body)
	if _, renamed := fields[FieldName]; renamed {
		fields[FieldSlug] = slug.Make(stringField(fields, FieldName))
	}

	p, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	profile, err := s.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		if !errors.Is(err, user.ErrProfileNotFound) {
			s.logger.Warn("Could not load caller profile for updated property", zap.String("userID", caller.UserID), zap.Error(err))
		}
		profile = nil
	}
	return &Response{
		Property:      p,
		Owner:         owner.ForCaller(caller, profile),
		IsOwnProperty: true,
	}, nil
}

func (s *ServiceImplementation) Delete(ctx context.Context, caller *identity.Identity, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != caller.UserID {
		s.logger.Warn("Rejected delete of foreign property",
			zap.String("propertyID", id), zap.String("userID", caller.UserID))
		return ErrDeleteForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Property deleted", zap.String("propertyID", id), zap.String("userID", caller.UserID))
	return nil
}
