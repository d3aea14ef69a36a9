package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	type patch struct {
		Description Optional[string] `json:"description"`
		Public      Optional[bool]   `json:"public"`
	}

	tests := []struct {
		name        string
		body        string
		present     bool
		null        bool
		description string
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"description":null}`, present: true, null: true},
		{name: "empty", body: `{"description":""}`, present: true},
		{name: "value", body: `{"description":"text"}`, present: true, description: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.present, p.Description.Present)
			assert.Equal(t, tt.null, p.Description.IsNull())
			if tt.present && !tt.null {
				require.NotNil(t, p.Description.Value)
				assert.Equal(t, tt.description, *p.Description.Value)
			}
			assert.False(t, p.Public.Present)
		})
	}

	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"public":"yes"}`), &p))
}

func TestParseJSON(t *testing.T) {
	t.Run("numbers stay json.Number", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"verse": 47}`))
		var dest map[string]any
		require.NoError(t, ParseJSON(httptest.NewRecorder(), req, &dest))
		assert.Equal(t, json.Number("47"), dest["verse"])
	})

	t.Run("too large", func(t *testing.T) {
		body := `{"text":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		var dest map[string]any
		err := ParseJSON(httptest.NewRecorder(), req, &dest)
		require.Error(t, err)
		assert.True(t, IsBodyTooLarge(err))
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		var dest map[string]any
		err := ParseJSON(httptest.NewRecorder(), req, &dest)
		require.Error(t, err)
		assert.False(t, IsBodyTooLarge(err))
	})
}

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusConflict, "chapter exists", map[string]any{
		"resource_id": "ch1",
		"status":      "ignored",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ch1", body["resource_id"])
	assert.Equal(t, float64(http.StatusConflict), body["status"])
	assert.Equal(t, "Conflict", body["title"])
	assert.Equal(t, "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8", body["type"])
}

func TestRequestIDContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req))
	assert.Equal(t, "r1", GetRequestID(WithRequestID(req, "r1")))
}
