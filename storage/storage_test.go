package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	cases := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "games/1/photos/a.jpg", "https://cdn.example.com/games/1/photos/a.jpg"},
		{"https://cdn.example.com/", "/games/1/photos/a.jpg", "https://cdn.example.com/games/1/photos/a.jpg"},
		{"https://cdn.example.com/media", "games/2/photos/b.png", "https://cdn.example.com/media/games/2/photos/b.png"},
		{"", "games/1/photos/a.jpg", ""},
		{"https://cdn.example.com", "", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, publicURL(tc.base, tc.key), "base=%q key=%q", tc.base, tc.key)
	}
}

func TestNewCloudflareR2UploaderRequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	require.Error(t, err)
}

func TestLocalUploaderRoundTrip(t *testing.T) {
	root := t.TempDir()
	u, err := NewLocalUploader(root, "http://localhost:8080/uploads")
	require.NoError(t, err)

	res, err := u.Upload(context.Background(), "games/7/photos/x.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/games/7/photos/x.jpg", res.Location)
	assert.NotEmpty(t, res.ETag)

	data, err := os.ReadFile(filepath.Join(root, "games", "7", "photos", "x.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, u.Delete(context.Background(), "games/7/photos/x.jpg"))
	_, err = os.Stat(filepath.Join(root, "games", "7", "photos", "x.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting a missing object is not an error
	require.NoError(t, u.Delete(context.Background(), "games/7/photos/x.jpg"))
}

func TestLocalUploaderRejectsTraversal(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "")
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), "../escape.jpg", "image/jpeg", strings.NewReader("x"))
	require.Error(t, err)
}
