package validate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUUID(t *testing.T) {
	t.Run("valid_uuid", func(t *testing.T) {
		assert.True(t, IsUUID("550e8400-e29b-41d4-a716-446655440000"))
	})

	t.Run("invalid_uuid_string", func(t *testing.T) {
		assert.False(t, IsUUID("not-a-uuid"))
	})

	t.Run("empty_string", func(t *testing.T) {
		assert.False(t, IsUUID(""))
	})
}

func TestDecodeJSON(t *testing.T) {
	type req struct {
		Title string `json:"title"`
	}

	t.Run("decodes_body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Ramen Night"}`))
		var dst req
		assert.NoError(t, DecodeJSON(r, &dst))
		assert.Equal(t, "Ramen Night", dst.Title)
	})

	t.Run("rejects_unknown_fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","bogus":true}`))
		var dst req
		assert.Error(t, DecodeJSON(r, &dst))
	})

	t.Run("rejects_malformed_json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{title`))
		var dst req
		assert.Error(t, DecodeJSON(r, &dst))
	})
}

func TestStruct(t *testing.T) {
	type req struct {
		Title    string `validate:"required,max=120"`
		Capacity int    `validate:"required,gt=0"`
	}

	t.Run("valid_passes", func(t *testing.T) {
		assert.NoError(t, Struct(req{Title: "Dumpling Workshop", Capacity: 12}))
	})

	t.Run("failures_fold_into_meta", func(t *testing.T) {
		err := Struct(req{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "validation_error")
	})
}
