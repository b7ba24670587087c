package property

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"property_listing_backend/internal/common"
	"property_listing_backend/internal/identity"
	"property_listing_backend/internal/identity/identitytest"
	"property_listing_backend/internal/owner"
	"property_listing_backend/internal/user"
	"property_listing_backend/internal/user/usertest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUserHeader = "X-Test-User"

type fixture struct {
	router   *gin.Engine
	props    *memoryRepository
	users    *usertest.MemoryRepository
	verifier *identitytest.MockVerifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	f := &fixture{
		props:    newMemoryRepository(),
		users:    usertest.NewMemoryRepository(),
		verifier: new(identitytest.MockVerifier),
	}
	profiles := user.NewService(f.users, f.verifier, logger)
	owners := owner.NewEnricherWithStrategies(4, logger,
		owner.ProfileStrategy(f.users), owner.IdentityStrategy(f.verifier))
	svc := NewService(f.props, profiles, f.users, owners, logger)

	fakeAuth := func(c *gin.Context) {
		uid := c.GetHeader(testUserHeader)
		common.SetIdentity(c, &identity.Identity{UserID: uid, Email: uid + "@example.com"})
		c.Next()
	}
	f.router = gin.New()
	NewHandler(svc, logger).RegisterRoutes(f.router.Group("/api"), fakeAuth)
	return f
}

// knownUser makes the identity provider return a record for uid.
func (f *fixture) knownUser(uid, displayName string) {
	f.verifier.On("GetUser", mock.Anything, uid).Return(&identity.UserRecord{
		UID: uid, Email: uid + "@example.com", DisplayName: displayName,
	}, nil)
}

func (f *fixture) unknownUsers() {
	f.verifier.On("GetUser", mock.Anything, mock.Anything).Return(nil, identity.ErrUserNotFound)
}

func (f *fixture) do(t *testing.T, method, path, uid, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(testUserHeader, uid)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var obj map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &obj))
	}
	return w, obj
}

func (f *fixture) list(t *testing.T, path, uid string) []map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(testUserHeader, uid)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	return items
}

func (f *fixture) create(t *testing.T, uid, name string) string {
	t.Helper()
	w, body := f.do(t, http.MethodPost, "/api/properties", uid,
		`{"name":"`+name+`","type":"house","location":"Town","price":250000}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func TestCreate_FlatAExample(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")

	w, body := f.do(t, http.MethodPost, "/api/properties", "u1",
		`{"name":"Flat A","type":"apartment","location":"City","price":1000}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "Flat A", body["name"])
	assert.Equal(t, float64(1000), body["price"])
	assert.Equal(t, "flat-a", body["slug"])
	assert.Equal(t, true, body["isOwnProperty"])
	assert.NotEmpty(t, body["createdAt"])
	ownerView := body["owner"].(map[string]interface{})
	assert.Equal(t, "u1", ownerView["uid"])
	assert.Equal(t, "User One", ownerView["displayName"])

	stored, ok := f.users.Get("u1")
	require.True(t, ok, "profile should be created on first listing")
	assert.Equal(t, "u1@example.com", stored.Email)
}

func TestCreate_MissingFieldsDoesNotPersist(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, "/api/properties", "u1", `{"name":"X","location":"","price":0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", body["message"])
	assert.Equal(t, []interface{}{"type", "location", "price"}, body["missingFields"])
	assert.Equal(t, 0, f.props.writeCount())
	f.verifier.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestCreate_EmptyBody(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, "/api/properties", "u1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, body["missingFields"], 4)
	assert.Equal(t, 0, f.props.writeCount())
}

func TestCreate_IgnoresServerManagedFields(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")

	w, body := f.do(t, http.MethodPost, "/api/properties", "u1",
		`{"name":"A","type":"t","location":"l","price":1,"userId":"intruder","createdAt":"1999","isOwnProperty":false}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u1", body["userId"])
	assert.NotEqual(t, "1999", body["createdAt"])
	assert.Equal(t, true, body["isOwnProperty"])
}

func TestCreate_ProfileFailureFallsBackToHints(t *testing.T) {
	f := newFixture(t)
	f.unknownUsers()

	w, body := f.do(t, http.MethodPost, "/api/properties", "u9",
		`{"name":"A","type":"t","location":"l","price":1,"ownerName":"Nina","ownerPhone":"555"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, map[string]interface{}{
		"uid":         "u9",
		"email":       "u9@example.com",
		"displayName": "Nina",
		"phone":       "555",
		"photoURL":    nil,
	}, body["owner"])
	_, stored := f.users.Get("u9")
	assert.False(t, stored)
}

func TestGet_IsOwnPropertyDependsOnRequester(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")
	id := f.create(t, "u1", "Home")

	w, asOwner := f.do(t, http.MethodGet, "/api/properties/"+id, "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, asOwner["isOwnProperty"])
	assert.Equal(t, "u1", asOwner["owner"].(map[string]interface{})["uid"])

	w, asOther := f.do(t, http.MethodGet, "/api/properties/"+id, "u2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, asOther["isOwnProperty"])
	assert.Equal(t, "u1", asOther["owner"].(map[string]interface{})["uid"])
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodGet, "/api/properties/nope", "u1", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Property not found", body["message"])
}

func TestGet_UnresolvableOwnerGetsPlaceholder(t *testing.T) {
	f := newFixture(t)
	f.unknownUsers()
	p, err := f.props.Create(context.Background(), "ghost", map[string]interface{}{
		FieldName: "Orphan", FieldType: "t", FieldLocation: "l", FieldPrice: int64(1),
	})
	require.NoError(t, err)

	w, body := f.do(t, http.MethodGet, "/api/properties/"+p.ID, "u1", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{
		"uid":         "ghost",
		"email":       "Unknown",
		"displayName": "Unknown User",
		"phone":       nil,
		"photoURL":    nil,
	}, body["owner"])
}

func TestUpdate_NonOwnerForbiddenAndUnchanged(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")
	id := f.create(t, "u1", "Home")
	before, err := f.props.FindByID(context.Background(), id)
	require.NoError(t, err)

	w, body := f.do(t, http.MethodPut, "/api/properties/"+id, "u2", `{"name":"Stolen"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied - You can only update your own properties", body["message"])

	w, body = f.do(t, http.MethodDelete, "/api/properties/"+id, "u2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied - You can only delete your own properties", body["message"])

	after, err := f.props.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_CannotChangeOwnership(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")
	id := f.create(t, "u1", "Home")

	w, body := f.do(t, http.MethodPut, "/api/properties/"+id, "u1",
		`{"userId":"u2","name":"Big Home","createdAt":"forged","bedrooms":3}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "Big Home", body["name"])
	assert.Equal(t, "big-home", body["slug"])
	assert.Equal(t, float64(3), body["bedrooms"])
	assert.NotEqual(t, "forged", body["createdAt"])
	assert.Equal(t, true, body["isOwnProperty"])
	assert.Equal(t, "User One", body["owner"].(map[string]interface{})["displayName"])

	stored, err := f.props.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPut, "/api/properties/missing", "u1", `{"name":"x"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete_Owner(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")
	id := f.create(t, "u1", "Home")

	w, body := f.do(t, http.MethodDelete, "/api/properties/"+id, "u1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Property deleted successfully", body["message"])
	_, err := f.props.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestList_MyPropertiesIsOrderedSubset(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")
	f.knownUser("u2", "User Two")
	first := f.create(t, "u1", "First")
	f.create(t, "u2", "Other")
	third := f.create(t, "u1", "Third")

	mine := f.list(t, "/api/properties?myProperties=true", "u1")
	require.Len(t, mine, 2)
	assert.Equal(t, third, mine[0]["id"])
	assert.Equal(t, first, mine[1]["id"])
	for _, p := range mine {
		assert.Equal(t, "u1", p["userId"])
		assert.Equal(t, true, p["isOwnProperty"])
	}

	all := f.list(t, "/api/properties", "u1")
	require.Len(t, all, 3)
	assert.Equal(t, "User Two", all[1]["owner"].(map[string]interface{})["displayName"])
	assert.Equal(t, false, all[1]["isOwnProperty"])
}

func TestList_Empty(t *testing.T) {
	f := newFixture(t)

	items := f.list(t, "/api/properties", "u1")

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestList_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.props.err = errors.New("unavailable")

	w, body := f.do(t, http.MethodGet, "/api/properties", "u1", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch properties", body["message"])
	assert.Equal(t, "unavailable", body["error"])
}

func TestListByUser(t *testing.T) {
	f := newFixture(t)
	f.knownUser("u1", "User One")
	f.create(t, "u1", "A")
	f.create(t, "u1", "B")

	items := f.list(t, "/api/properties/user/u1", "u2")

	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0]["name"])
	for _, p := range items {
		assert.Equal(t, false, p["isOwnProperty"])
		assert.Equal(t, "u1", p["owner"].(map[string]interface{})["uid"])
	}
	assert.Empty(t, f.list(t, "/api/properties/user/nobody", "u2"))
}
