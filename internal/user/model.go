// File: internal/user/model.go
package user

import (
	"time"

	"property_listing_backend/internal/common"
)

// DefaultDisplayName is used when neither the identity provider nor the client supplies a name.
const DefaultDisplayName = "Anonymous User"

// Profile is the app-specific record of a user, stored in the users collection keyed by user id.
type Profile struct {
	ID          string    `firestore:"-" json:"id,omitempty"`
	UID         string    `firestore:"uid,omitempty" json:"uid"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	Phone       *string   `firestore:"phone" json:"phone"`
	PhotoURL    *string   `firestore:"photoURL" json:"photoURL"`
	Address     string    `firestore:"address" json:"address"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// ProfileHints are client-supplied fallbacks used when a profile is created implicitly.
type ProfileHints struct {
	DisplayName string
	Phone       string
}

// Field names of the profile document, shared by merge writes.
const (
	FieldEmail       = "email"
	FieldDisplayName = "displayName"
	FieldAddress     = "address"
	FieldPhotoURL    = "photoURL"
	FieldUpdatedAt   = "updatedAt"
)

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// UpdateProfileRequest is the body of PUT /users/profile. Empty fields are treated as not supplied.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"omitempty,max=100"`
	Address     string `json:"address" binding:"omitempty,max=500"`
	PhotoURL    string `json:"photoURL" binding:"omitempty,url,max=2048"`
}

// UpdateProfileResponse reports the merge payload that was written.
type UpdateProfileResponse struct {
	Message string                 `json:"message"`
	Profile map[string]interface{} `json:"profile"`
}

// ErrProfileNotFound is returned by the repository when no profile document exists.
var ErrProfileNotFound = common.ErrNotFound.WithMessage("User profile not found")

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
