// File: internal/platform/database/firestore.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names used by the API.
const (
	UsersCollection      = "users"
	PropertiesCollection = "properties"
)

// IsNotFound reports whether err is Firestore's "document does not exist" error.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ValidDocumentID reports whether id can address a single document in a collection.
func ValidDocumentID(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 1500 {
		return false
	}
	return !strings.Contains(id, "/")
}

// Ping issues a cheap read to verify the Firestore connection.
func Ping(ctx context.Context, client *firestore.Client, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := client.Collection(UsersCollection).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore ping failed", zap.Error(err))
		return fmt.Errorf("failed to reach Firestore: %w", err)
	}
	logger.Info("Successfully connected to Firestore.")
	return nil
}
