// Package identitytest provides a testify mock of identity.Verifier.
package identitytest

import (
	"context"

	"property_listing_backend/internal/identity"

	"github.com/stretchr/testify/mock"
)

// MockVerifier is a mock type for identity.Verifier
type MockVerifier struct {
	mock.Mock
}

var _ identity.Verifier = (*MockVerifier)(nil)

func (m *MockVerifier) VerifyIDToken(ctx context.Context, token string) (*identity.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockVerifier) GetUser(ctx context.Context, uid string) (*identity.UserRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserRecord), args.Error(1)
}

func (m *MockVerifier) UpdateUser(ctx context.Context, uid string, update identity.UserUpdate) error {
	args := m.Called(ctx, uid, update)
	return args.Error(0)
}
