package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadhelhaji/90Plus-backend/middleware"
	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photoUploadRequest(t *testing.T, field string, size int) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, "goal.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/club/1/games/1/photos", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("clubID", "1")
	rctx.URLParams.Add("gameID", "1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithActor(ctx, models.Actor{UserID: 1, Role: models.RoleCoach})
	return req.WithContext(ctx)
}

func TestAddPhotoRejectsOversizedBody(t *testing.T) {
	h := NewGameHandler(nil)
	h.maxPhotoBytes = 1024

	rec := httptest.NewRecorder()
	h.AddPhoto(rec, photoUploadRequest(t, photoFormField, 4096))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "1024 bytes")
}

func TestAddPhotoRequiresPhotoField(t *testing.T) {
	h := NewGameHandler(nil)

	rec := httptest.NewRecorder()
	h.AddPhoto(rec, photoUploadRequest(t, "picture", 16))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), photoFormField)
}
