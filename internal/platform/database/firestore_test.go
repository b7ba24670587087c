package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(status.Error(codes.NotFound, "no such document")))
	assert.False(t, IsNotFound(status.Error(codes.Unavailable, "down")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(fmt.Errorf("wrapped: %w", errors.New("x"))))
}

func TestValidDocumentID(t *testing.T) {
	assert.True(t, ValidDocumentID("abc123"))
	assert.False(t, ValidDocumentID(""))
	assert.False(t, ValidDocumentID("."))
	assert.False(t, ValidDocumentID(".."))
	assert.False(t, ValidDocumentID("a/b"))
	assert.False(t, ValidDocumentID(strings.Repeat("x", 1501)))
}
