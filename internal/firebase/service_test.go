package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"property_listing_backend/internal/identity"
)

func TestIdentityFromToken(t *testing.T) {
	token := &auth.Token{
		UID: "u1",
		Claims: map[string]interface{}{
			"email":          "u1@example.com",
			"email_verified": true,
		},
	}
	id := identityFromToken(token)
	assert.Equal(t, &identity.Identity{UserID: "u1", Email: "u1@example.com", EmailVerified: true}, id)

	bare := identityFromToken(&auth.Token{UID: "u2"})
	assert.Equal(t, "u2", bare.UserID)
	assert.Empty(t, bare.Email)
	assert.False(t, bare.EmailVerified)
}

func TestUserRecordFrom(t *testing.T) {
	rec := &auth.UserRecord{UserInfo: &auth.UserInfo{
		UID:         "u1",
		Email:       "u1@example.com",
		DisplayName: "Jane",
		PhoneNumber: "+15550100",
		PhotoURL:    "https://img.example.com/u1.png",
	}}
	got := userRecordFrom(rec)
	assert.Equal(t, "u1", got.UID)
	assert.Equal(t, "Jane", got.DisplayName)
	assert.Equal(t, "+15550100", got.PhoneNumber)

	assert.Equal(t, &identity.UserRecord{}, userRecordFrom(nil))
}

func TestClassifyVerifyError_Unknown(t *testing.T) {
	base := errors.New("network down")
	ve := classifyVerifyError(base)
	assert.Equal(t, identity.FailureUnknown, ve.Kind)
	assert.Empty(t, ve.Code)
	assert.ErrorIs(t, ve, base)
}

func TestVerifyIDToken_EmptyTokenIsMalformed(t *testing.T) {
	s := &FirebaseService{logger: zap.NewNop()}
	_, err := s.VerifyIDToken(context.Background(), "")
	require.Error(t, err)
	kind, _ := identity.ClassifyFailure(err)
	assert.Equal(t, identity.FailureMalformed, kind)
}

func TestUpdateUser_EmptyUpdateIsNoop(t *testing.T) {
	s := &FirebaseService{logger: zap.NewNop()}
	assert.NoError(t, s.UpdateUser(context.Background(), "u1", identity.UserUpdate{}))
}
