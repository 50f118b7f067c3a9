package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDetailResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("Exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrorDetailResponse(rec, req, http.StatusInternalServerError, "login failed", errors.New("db down"), true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"login failed","message":"db down"}`, rec.Body.String())
	})

	t.Run("Hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrorDetailResponse(rec, req, http.StatusInternalServerError, "login failed", errors.New("db down"), false)
		assert.JSONEq(t, `{"error":"login failed"}`, rec.Body.String())
	})
}

func TestErrorResponseShape(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "Not found")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"error": "Not found"}, body)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		UserID string `json:"userId"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"Valid", `{"userId":"abcd"}`, ""},
		{"UnknownFieldsIgnored", `{"userId":"abcd","remember":true}`, ""},
		{"Empty", ``, "body must not be empty"},
		{"Syntax", `{"userId":}`, "badly-formed JSON"},
		{"Truncated", `{"userId":"ab`, "badly-formed JSON"},
		{"WrongType", `{"userId":12}`, `incorrect JSON type for field "userId"`},
		{"TwoValues", `{"userId":"a"}{"userId":"b"}`, "single JSON value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst payload
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "abcd", dst.UserID)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
