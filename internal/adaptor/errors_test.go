package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"course-platform/internal/usecase"
	"course-platform/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		kind error
		code int
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest},
		{usecase.ErrInvalidOrExpiredToken, http.StatusBadRequest},
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{usecase.ErrUnauthenticated, http.StatusUnauthorized},
		{usecase.ErrForbidden, http.StatusForbidden},
		{usecase.ErrAccountDisabled, http.StatusForbidden},
		{usecase.ErrUserNotFound, http.StatusNotFound},
		{usecase.ErrNotFound, http.StatusNotFound},
		{usecase.ErrConflict, http.StatusConflict},
		{usecase.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			err := fmt.Errorf("op: %w", &usecase.Error{Kind: tt.kind, Message: "something happened"})
			writeServiceError(rec, zap.NewNop(), err, "test")

			assert.Equal(t, tt.code, rec.Code)

			var resp utils.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Status)
			if tt.code == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", resp.Message)
			} else {
				assert.Equal(t, "something happened", resp.Message)
			}
		})
	}
}

func TestWriteServiceError_HidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), errors.New(`pq: relation "users" does not exist`), "test")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestWriteServiceError_Fields(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), &usecase.Error{
		Kind:    usecase.ErrInvalidInput,
		Message: "Validation failed",
		Fields:  map[string]string{"email": "Invalid email format"},
	}, "register")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Validation failed","errors":{"email":"Invalid email format"}}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alice"}`))
	assert.True(t, decodeJSON(rec, req, &dst))
	assert.Equal(t, "alice", dst.Name)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.False(t, decodeJSON(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request body is required")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`+strings.Repeat(" ", maxJSONBody)+`"x"}`))
	assert.False(t, decodeJSON(rec, req, &dst))
	assert.Contains(t, rec.Body.String(), "Request body too large")
}
