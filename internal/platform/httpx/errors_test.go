package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "Unauthenticated"},
		{"forbidden", fmt.Errorf("%w: required canWrite on /roles", ErrForbidden), http.StatusForbidden, "Forbidden"},
		{"resource not configured", ErrResourceNotConfigured, http.StatusNotFound, "ResourceNotConfigured"},
		{"not found", fmt.Errorf("%w: role 7", ErrNotFound), http.StatusNotFound, "NotFound"},
		{"validation", fmt.Errorf("%w: name required", ErrValidation), http.StatusBadRequest, "ValidationError"},
		{"duplicate", fmt.Errorf("%w: email taken", ErrDuplicate), http.StatusBadRequest, "ValidationError"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := httptest.NewRecorder()
			Error(res, tc.err)
			require.Equal(t, tc.wantStatus, res.Code)

			var envelope Envelope
			require.NoError(t, json.Unmarshal(res.Body.Bytes(), &envelope))
			require.Equal(t, "error", envelope.Status)
			require.Equal(t, tc.wantCode, envelope.Error)
			require.NotEmpty(t, envelope.Message)
			require.False(t, envelope.DateTime.IsZero())
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	res := httptest.NewRecorder()
	Error(res, errors.New("pq: password authentication failed for user"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &envelope))
	require.Equal(t, "internal server error", envelope.Message)
	require.NotContains(t, res.Body.String(), "password")
}

func TestSuccessEnvelope(t *testing.T) {
	res := httptest.NewRecorder()
	before := time.Now().UTC()
	Success(res, http.StatusCreated, "Role created successfully", map[string]int64{"id": 9})

	require.Equal(t, http.StatusCreated, res.Code)
	require.Equal(t, "application/json", res.Header().Get("Content-Type"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &envelope))
	require.Equal(t, "success", envelope.Status)
	require.Equal(t, "Role created successfully", envelope.Message)
	require.Empty(t, envelope.Error)
	require.False(t, envelope.DateTime.Before(before.Truncate(time.Second)))
}
