// Package identity defines the contract between the API and the external identity provider:
// token verification, user-record lookup and user-record updates.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// Identity is the verified caller of a request. It is derived from the bearer token on every
// request and never persisted.
type Identity struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// UserRecord is the identity provider's canonical record of a user.
type UserRecord struct {
	UID         string
	Email       string
	DisplayName string
	PhoneNumber string
	PhotoURL    string
}

// UserUpdate lists the user-record attributes the API may change. Nil fields are left untouched.
type UserUpdate struct {
	DisplayName *string
	PhotoURL    *string
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.PhotoURL == nil
}

// Verifier verifies bearer tokens and reads or updates user records.
type Verifier interface {
	VerifyIDToken(ctx context.Context, token string) (*Identity, error)
	GetUser(ctx context.Context, uid string) (*UserRecord, error)
	UpdateUser(ctx context.Context, uid string, update UserUpdate) error
}

// FailureKind classifies why a token could not be verified.
type FailureKind int

const (
	// FailureUnknown covers every verification failure without a dedicated kind.
	FailureUnknown FailureKind = iota
	FailureExpired
	FailureRevoked
	FailureMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailureExpired:
		return "expired"
	case FailureRevoked:
		return "revoked"
	case FailureMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// VerificationError is returned by Verifier.VerifyIDToken when a token is rejected.
// Code is the provider's machine-readable error code when it has one.
type VerificationError struct {
	Kind FailureKind
	Code string
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token verification failed (%s)", e.Kind)
	}
	return fmt.Sprintf("token verification failed (%s): %v", e.Kind, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// ClassifyFailure extracts the failure kind and provider code from err.
// Errors that are not VerificationErrors are FailureUnknown with no code.
func ClassifyFailure(err error) (FailureKind, string) {
	var ve *VerificationError
	if errors.As(err, &ve) {
		return ve.Kind, ve.Code
	}
	return FailureUnknown, ""
}

// ErrUserNotFound is returned by Verifier.GetUser when the provider has no such user.
var ErrUserNotFound = errors.New("identity: user not found")
