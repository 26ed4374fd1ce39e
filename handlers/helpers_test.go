package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fadhelhaji/90Plus-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{services.ErrClubNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: team 9", services.ErrTeamNotFound), http.StatusNotFound},
		{services.ErrInvitationNotFound, http.StatusNotFound},
		{services.ErrClubOwnerRequired, http.StatusForbidden},
		{services.ErrCoachRoleRequired, http.StatusForbidden},
		{services.ErrInvalidFormation, http.StatusBadRequest},
		{fmt.Errorf("%w: club_name is required", services.ErrValidationFailed), http.StatusBadRequest},
		{services.ErrInvalidRating, http.StatusBadRequest},
		{services.ErrPlayerAlreadyInClub, http.StatusBadRequest},
		{services.ErrAlreadyInvited, http.StatusBadRequest},
		{services.ErrUsernameTaken, http.StatusBadRequest},
		{services.ErrCoachAlreadyOwnsClub, http.StatusBadRequest},
		{services.ErrPlayerAlreadyOnRoster, http.StatusBadRequest},
		{services.ErrAuthInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", services.ErrGameOperationFailed, errors.New("connection reset")), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(rec, req, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, "error")
			if tc.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, body["error"], "connection reset")
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Reds"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"unknown field", `{"nickname":"x"}`, "unknown key"},
		{"wrong type", `{"name":5}`, `incorrect JSON type for field "name"`},
		{"two values", `{"name":"a"}{"name":"b"}`, "single JSON value"},
		{"broken", `{"name":`, "badly-formed JSON"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst payload
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Reds", dst.Name)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGetIDFromURL(t *testing.T) {
	withParam := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("clubID", value)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := getIDFromURL(withParam("42"), "clubID")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := getIDFromURL(withParam(bad), "clubID")
		assert.Error(t, err, "value %q", bad)
	}
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []int{3, 1, 3}, parseTagList(json.RawMessage(`[3, 1, 3]`)))
	assert.Equal(t, []int{2}, parseTagList(json.RawMessage(`[2, "x", 1.5, null]`)))
	assert.Equal(t, []int{}, parseTagList(json.RawMessage(`"not a list"`)))
	assert.Equal(t, []int{}, parseTagList(nil))
}
