// File: internal/property/model.go
package property

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"property_listing_backend/internal/common"
	"property_listing_backend/internal/owner"
)

// Document field names managed by the server.
const (
	FieldID            = "id"
	FieldUserID        = "userId"
	FieldCreatedAt     = "createdAt"
	FieldUpdatedAt     = "updatedAt"
	FieldSlug          = "slug"
	FieldOwner         = "owner"
	FieldIsOwnProperty = "isOwnProperty"

	FieldName     = "name"
	FieldType     = "type"
	FieldLocation = "location"
	FieldPrice    = "price"

	// Body-only hints used when the caller's profile has to be created.
	FieldOwnerName  = "ownerName"
	FieldOwnerPhone = "ownerPhone"
)

// RequiredFields must be present and truthy in a create request, in reporting order.
var RequiredFields = []string{FieldName, FieldType, FieldLocation, FieldPrice}

var serverManagedFields = map[string]struct{}{
	FieldID:            {},
	FieldUserID:        {},
	FieldCreatedAt:     {},
	FieldUpdatedAt:     {},
	FieldSlug:          {},
	FieldOwner:         {},
	FieldIsOwnProperty: {},
}

// Property is a stored listing. Fields holds every client-owned attribute, including
// name, type, location and price; the server-managed attributes live in typed fields.
type Property struct {
	ID        string
	UserID    string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fields    map[string]interface{}
}

// Response is a property as returned by the API, with its owner view attached.
type Response struct {
	Property      *Property
	Owner         owner.View
	IsOwnProperty bool
}

// MarshalJSON flattens the property's fields next to the server-managed ones.
func (r Response) MarshalJSON() ([]byte, error) {
	p := r.Property
	out := make(map[string]interface{}, len(p.Fields)+7)
	for k, v := range p.Fields {
		out[k] = v
	}
	out[FieldID] = p.ID
	out[FieldUserID] = p.UserID
	if p.Slug != "" {
		out[FieldSlug] = p.Slug
	}
	if !p.CreatedAt.IsZero() {
		out[FieldCreatedAt] = p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		out[FieldUpdatedAt] = p.UpdatedAt
	}
	out[FieldOwner] = r.Owner
	out[FieldIsOwnProperty] = r.IsOwnProperty
	return json.Marshal(out)
}

var (
	ErrPropertyNotFound = common.ErrNotFound.WithMessage("Property not found")
	ErrUpdateForbidden  = common.ErrForbidden.WithMessage("Access denied - You can only update your own properties")
	ErrDeleteForbidden  = common.ErrForbidden.WithMessage("Access denied - You can only delete your own properties")
)

// ClientFields returns the writable subset of a request body: server-managed keys and
// empty keys are dropped, and integral JSON numbers become int64.
func ClientFields(body map[string]interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(body))
	for k, v := range body {
		if k == "" {
			continue
		}
		if _, managed := serverManagedFields[k]; managed {
			continue
		}
		fields[k] = normalizeValue(v)
	}
	return fields
}

// MissingRequiredFields lists the required fields that are absent or falsy
// (null, empty string, zero or false).
func MissingRequiredFields(fields map[string]interface{}) []string {
	var missing []string
	for _, f := range RequiredFields {
		if !truthy(fields[f]) {
			missing = append(missing, f)
		}
	}
	return missing
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && t >= math.MinInt64 && t < math.MaxInt64 {
			return int64(t)
		}
		return t
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, inner := range t {
			out[k] = normalizeValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, inner := range t {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}

// stringField returns the string form of a scalar field, or "" when absent.
func stringField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
