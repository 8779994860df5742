package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"staysync/internal/domain"
)

type fakeMedia map[string]string

func (f fakeMedia) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	if filename == "broken" {
		return nil, "", errors.New("gridfs unavailable")
	}
	body, ok := f[filename]
	if !ok {
		return nil, "", domain.ErrMediaNotFound
	}
	return io.NopCloser(strings.NewReader(body)), "image/png", nil
}

func TestMedia(t *testing.T) {
	var gotErr error
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		gotErr = err
		status, message := classify(err)
		http.Error(w, message, status)
	}
	h := Media(fakeMedia{"abc123": "png-bytes"}, onError)

	t.Run("serves stored image", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/media/upload/abc123", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "png-bytes", w.Body.String())
	})

	t.Run("resized path uses last segment", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/media/upload/w_250/abc123", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "png-bytes", w.Body.String())
	})

	t.Run("unknown file", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/media/upload/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.ErrorIs(t, gotErr, ErrPageNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/media/upload/broken", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
