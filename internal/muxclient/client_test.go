package muxclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/vidhook_server/internal/muxclient"
)

func TestCreateUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/video/v1/uploads", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "token-id", user)
		assert.Equal(t, "token-secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "*", body["cors_origin"])
		settings := body["new_asset_settings"].(map[string]interface{})
		assert.Equal(t, "video-1", settings["passthrough"])
		assert.Equal(t, []interface{}{"public"}, settings["playback_policy"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"upload-1","url":"https://storage.example/upload-1","status":"waiting"}}`))
	}))
	defer srv.Close()

	client := muxclient.NewClient(srv.URL+"/", "token-id", "token-secret")
	upload, err := client.CreateUpload(context.Background(), muxclient.UploadRequest{
		Passthrough:    "video-1",
		PlaybackPolicy: "public",
		CorsOrigin:     "*",
	})

	require.NoError(t, err)
	assert.Equal(t, "upload-1", upload.ID)
	assert.Equal(t, "https://storage.example/upload-1", upload.URL)
}

func TestCreateUploadAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"unauthorized"}}`))
	}))
	defer srv.Close()

	client := muxclient.NewClient(srv.URL, "id", "secret")
	_, err := client.CreateUpload(context.Background(), muxclient.UploadRequest{Passthrough: "v"})

	var apiErr *muxclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCreateUploadRequiresCredentials(t *testing.T) {
	client := muxclient.NewClient("http://127.0.0.1:1", "", "")
	_, err := client.CreateUpload(context.Background(), muxclient.UploadRequest{Passthrough: "v"})
	assert.Error(t, err)
}
