package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCloudinary(t *testing.T, serverURL string) *Cloudinary {
	t.Helper()

	cfg, err := config.NewFromParams("demo", "key-123", "secret-xyz")
	require.NoError(t, err)
	cfg.API.UploadPrefix = serverURL

	c, err := newCloudinary(cfg, "staysync_DEV")
	require.NoError(t, err)
	return c
}

func TestNewCloudinary_RequiresCredentials(t *testing.T) {
	_, err := NewCloudinary("", "", "", "staysync_DEV")
	assert.Error(t, err)
}

func TestCloudinary_Upload(t *testing.T) {
	t.Run("signed_upload_into_folder", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/upload"), r.URL.Path)

			assert.Equal(t, "key-123", r.FormValue("api_key"))
			assert.Equal(t, "staysync_DEV", r.FormValue("folder"))
			assert.NotEmpty(t, r.FormValue("timestamp"))
			assert.NotEmpty(t, r.FormValue("signature"))

			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			body, _ := io.ReadAll(file)
			assert.Equal(t, "PNGDATA", string(body))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/staysync_DEV/abc.png","public_id":"staysync_DEV/abc"}`))
		}))
		defer server.Close()

		img, err := newTestCloudinary(t, server.URL).Upload(context.Background(), "beach.png", "image/png", strings.NewReader("PNGDATA"))
		require.NoError(t, err)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/staysync_DEV/abc.png", img.URL)
		assert.Equal(t, "staysync_DEV/abc", img.Filename)
	})

	t.Run("api_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
		}))
		defer server.Close()

		_, err := newTestCloudinary(t, server.URL).Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid Signature")
	})

	t.Run("missing_url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := newTestCloudinary(t, server.URL).Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
		assert.Error(t, err)
	})
}

func TestCloudinary_Delete(t *testing.T) {
	tests := []struct {
		name    string
		result  string
		wantErr bool
	}{
		{"deleted", "ok", false},
		{"already_gone", "not found", false},
		{"unexpected", "error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/destroy"), r.URL.Path)
				assert.Equal(t, "staysync_DEV/abc", r.FormValue("public_id"))
				assert.NotEmpty(t, r.FormValue("signature"))

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"result":"` + tt.result + `"}`))
			}))
			defer server.Close()

			err := newTestCloudinary(t, server.URL).Delete(context.Background(), "staysync_DEV/abc")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
