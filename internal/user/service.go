package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"property_listing_backend/internal/identity"

	"go.uber.org/zap"
)

// Service defines the profile business logic.
type Service interface {
	// GetProfile returns the caller's profile, creating it from the identity provider on first access.
	GetProfile(ctx context.Context, caller *identity.Identity) (*Profile, error)
	// EnsureProfile returns the profile for uid, creating it when absent. created reports a new document.
	EnsureProfile(ctx context.Context, uid string, hints ProfileHints) (profile *Profile, created bool, err error)
	// UpdateProfile merge-writes the supplied fields and returns the payload written.
	UpdateProfile(ctx context.Context, caller *identity.Identity, req UpdateProfileRequest) (map[string]interface{}, error)
}

// ServiceImplementation implements Service over a Repository and the identity provider.
type ServiceImplementation struct {
	repo     Repository
	verifier identity.Verifier
	logger   *zap.Logger
	now      func() time.Time
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, verifier identity.Verifier, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		verifier: verifier,
		logger:   logger.Named("UserService"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ServiceImplementation) GetProfile(ctx context.Context, caller *identity.Identity) (*Profile, error) {
	profile, created, err := s.EnsureProfile(ctx, caller.UserID, ProfileHints{})
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("Initial profile created on first access", zap.String("userID", caller.UserID))
	}
	return profile, nil
}

func (s *ServiceImplementation) EnsureProfile(ctx context.Context, uid string, hints ProfileHints) (*Profile, bool, error) {
	existing, err := s.repo.FindByID(ctx, uid)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		s.logger.Error("Error finding profile", zap.Error(err), zap.String("userID", uid))
		return nil, false, err
	}

	rec, err := s.verifier.GetUser(ctx, uid)
	if err != nil {
		s.logger.Warn("Identity provider lookup failed while creating profile", zap.Error(err), zap.String("userID", uid))
		return nil, false, fmt.Errorf("failed to load user record: %w", err)
	}

	now := s.now()
	profile := &Profile{
		ID:          uid,
		UID:         uid,
		Email:       rec.Email,
		DisplayName: firstNonEmpty(rec.DisplayName, hints.DisplayName, DefaultDisplayName),
		Phone:       stringPtr(firstNonEmpty(rec.PhoneNumber, hints.Phone)),
		PhotoURL:    stringPtr(rec.PhotoURL),
		Address:     "",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		s.logger.Error("Failed to persist new profile", zap.Error(err), zap.String("userID", uid))
		return nil, false, err
	}
	return profile, true, nil
}

func (s *ServiceImplementation) UpdateProfile(ctx context.Context, caller *identity.Identity, req UpdateProfileRequest) (map[string]interface{}, error) {
	payload := map[string]interface{}{
		FieldEmail:     caller.Email,
		FieldUpdatedAt: s.now(),
	}
	var authUpdate identity.UserUpdate

	if req.DisplayName != "" {
		payload[FieldDisplayName] = req.DisplayName
		authUpdate.DisplayName = &req.DisplayName
	}
	if req.Address != "" {
		payload[FieldAddress] = req.Address
	}
	if req.PhotoURL != "" {
		payload[FieldPhotoURL] = req.PhotoURL
		authUpdate.PhotoURL = &req.PhotoURL
	}

	if !authUpdate.IsEmpty() {
		if err := s.verifier.UpdateUser(ctx, caller.UserID, authUpdate); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Merge(ctx, caller.UserID, payload); err != nil {
		s.logger.Error("Failed to merge profile update", zap.Error(err), zap.String("userID", caller.UserID))
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("userID", caller.UserID), zap.Int("fields", len(payload)))
	return payload, nil
}
