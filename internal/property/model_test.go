package property

import (
	"encoding/json"
	"testing"

	"property_listing_backend/internal/owner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingRequiredFields_TreatsFalsyAsAbsent(t *testing.T) {
	fields := map[string]interface{}{
		FieldName:     "",
		FieldType:     false,
		FieldLocation: nil,
		FieldPrice:    int64(0),
	}
	assert.Equal(t, RequiredFields, MissingRequiredFields(fields))

	fields = map[string]interface{}{
		FieldName:     "n",
		FieldType:     true,
		FieldLocation: map[string]interface{}{},
		FieldPrice:    0.5,
	}
	assert.Empty(t, MissingRequiredFields(fields))
}

func TestClientFields(t *testing.T) {
	got := ClientFields(map[string]interface{}{
		"":            "x",
		FieldID:       "forged",
		FieldUserID:   "other",
		FieldSlug:     "s",
		FieldOwner:    map[string]interface{}{},
		FieldPrice:    float64(1000),
		"area":        12.5,
		"rooms":       []interface{}{float64(1), float64(2)},
		FieldLocation: map[string]interface{}{"lat": float64(3)},
	})

	assert.Equal(t, map[string]interface{}{
		FieldPrice:    int64(1000),
		"area":        12.5,
		"rooms":       []interface{}{int64(1), int64(2)},
		FieldLocation: map[string]interface{}{"lat": int64(3)},
	}, got)
}

func TestResponse_MarshalJSON(t *testing.T) {
	r := Response{
		Property: &Property{
			ID:     "p1",
			UserID: "u1",
			Slug:   "flat-a",
			Fields: map[string]interface{}{FieldName: "Flat A", FieldUserID: "ignored"},
		},
		Owner:         owner.Placeholder("u1"),
		IsOwnProperty: true,
	}

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "p1", out["id"])
	assert.Equal(t, "u1", out["userId"])
	assert.Equal(t, "Flat A", out["name"])
	assert.Equal(t, true, out["isOwnProperty"])
	assert.NotContains(t, out, "createdAt")
	assert.Equal(t, "Unknown User", out["owner"].(map[string]interface{})["displayName"])
}
