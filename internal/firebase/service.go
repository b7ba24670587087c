package firebase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"property_listing_backend/internal/config"
	"property_listing_backend/internal/identity"
	"property_listing_backend/internal/platform/database"
)

// FirebaseService wraps the Firebase Admin SDK: Authentication as the identity provider and
// Cloud Firestore as the document store.
type FirebaseService struct {
	authClient   *auth.Client
	firestore    *firestore.Client
	checkRevoked bool
	logger       *zap.Logger
}

var _ identity.Verifier = (*FirebaseService)(nil)

// NewFirebaseService initializes the Firebase Admin SDK and opens the Auth and Firestore clients.
// The returned cleanup closes the Firestore client.
func NewFirebaseService(cfg *config.Config, logger *zap.Logger) (*FirebaseService, func(), error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.FirebaseServiceAccountKeyPath != "" {
		opts = append(opts, option.WithCredentialsFile(filepath.Clean(cfg.FirebaseServiceAccountKeyPath)))
	} else if !cfg.UsesEmulators() {
		logger.Error("Firebase service account key path is not configured.")
		return nil, nil, fmt.Errorf("firebase service account key path is required")
	}

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err))
		return nil, nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	if err := database.Ping(ctx, fsClient, logger); err != nil {
		logger.Warn("Firestore is not reachable yet; requests will fail until it is", zap.Error(err))
	}

	logger.Info("Firebase Admin SDK initialized successfully.",
		zap.Bool("emulators", cfg.UsesEmulators()),
		zap.Bool("checkRevoked", cfg.FirebaseCheckRevoked),
	)

	svc := &FirebaseService{
		authClient:   authClient,
		firestore:    fsClient,
		checkRevoked: cfg.FirebaseCheckRevoked,
		logger:       logger.Named("firebase"),
	}
	cleanup := func() {
		if err := fsClient.Close(); err != nil {
			logger.Warn("Failed to close Firestore client", zap.Error(err))
		}
	}
	return svc, cleanup, nil
}

// ProvideFirestore exposes the Firestore client to the repositories.
func ProvideFirestore(s *FirebaseService) *firestore.Client {
	return s.firestore
}

// ProvideVerifier exposes the service as the identity provider contract.
func ProvideVerifier(s *FirebaseService) identity.Verifier {
	return s
}

// VerifyIDToken verifies a Firebase ID token and returns the caller identity.
// Rejections are returned as *identity.VerificationError.
func (s *FirebaseService) VerifyIDToken(ctx context.Context, idToken string) (*identity.Identity, error) {
	if idToken == "" {
		return nil, &identity.VerificationError{Kind: identity.FailureMalformed, Err: errors.New("ID token must not be empty")}
	}

	var (
		token *auth.Token
		err   error
	)
	if s.checkRevoked {
		token, err = s.authClient.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		token, err = s.authClient.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		s.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, classifyVerifyError(err)
	}

	s.logger.Debug("Firebase ID token verified successfully", zap.String("uid", token.UID))
	return identityFromToken(token), nil
}

// GetUser looks up the provider's record for uid.
func (s *FirebaseService) GetUser(ctx context.Context, uid string) (*identity.UserRecord, error) {
	rec, err := s.authClient.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, fmt.Errorf("%w: %s", identity.ErrUserNotFound, uid)
		}
		return nil, fmt.Errorf("failed to get Firebase user %s: %w", uid, err)
	}
	return userRecordFrom(rec), nil
}

// UpdateUser applies the non-nil attributes of update to the provider's record for uid.
func (s *FirebaseService) UpdateUser(ctx context.Context, uid string, update identity.UserUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	params := &auth.UserToUpdate{}
	if update.DisplayName != nil {
		params = params.DisplayName(*update.DisplayName)
	}
	if update.PhotoURL != nil {
		params = params.PhotoURL(*update.PhotoURL)
	}
	if _, err := s.authClient.UpdateUser(ctx, uid, params); err != nil {
		s.logger.Error("Failed to update Firebase user", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to update Firebase user %s: %w", uid, err)
	}
	return nil
}

func classifyVerifyError(err error) *identity.VerificationError {
	switch {
	case auth.IsIDTokenExpired(err):
		return &identity.VerificationError{Kind: identity.FailureExpired, Code: "TOKEN_EXPIRED", Err: err}
	case auth.IsIDTokenRevoked(err):
		return &identity.VerificationError{Kind: identity.FailureRevoked, Code: "TOKEN_REVOKED", Err: err}
	case auth.IsIDTokenInvalid(err):
		return &identity.VerificationError{Kind: identity.FailureMalformed, Code: "INVALID_TOKEN_FORMAT", Err: err}
	case auth.IsUserDisabled(err):
		return &identity.VerificationError{Kind: identity.FailureUnknown, Code: "USER_DISABLED", Err: err}
	case auth.IsCertificateFetchFailed(err):
		return &identity.VerificationError{Kind: identity.FailureUnknown, Code: "CERTIFICATE_FETCH_FAILED", Err: err}
	default:
		return &identity.VerificationError{Kind: identity.FailureUnknown, Err: err}
	}
}

func identityFromToken(token *auth.Token) *identity.Identity {
	id := &identity.Identity{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}
	return id
}

func userRecordFrom(rec *auth.UserRecord) *identity.UserRecord {
	if rec == nil || rec.UserInfo == nil {
		return &identity.UserRecord{}
	}
	return &identity.UserRecord{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		PhoneNumber: rec.PhoneNumber,
		PhotoURL:    rec.PhotoURL,
	}
}
