package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fashionmart/storefront-api/tests/testutil"
	"github.com/fashionmart/storefront-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRouter() *gin.Engine {
	router := newTestRouter(nil)
	router.GET("/uploads/:filename", GetUploadedImage)
	return router
}

func TestGetUploadedImage(t *testing.T) {
	testutil.Setup(t)

	pngContent := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	require.NoError(t, os.WriteFile(filepath.Join(utils.UploadDir, "1700000000_shirt.png"), pngContent, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(utils.UploadDir, "1700000000_dress.jpg"), []byte("jpeg"), 0644))

	tests := []struct {
		name           string
		filename       string
		expectedStatus int
		expectedType   string
		expectedError  string
	}{
		{"png", "1700000000_shirt.png", http.StatusOK, "image/png", ""},
		{"jpg", "1700000000_dress.jpg", http.StatusOK, "image/jpeg", ""},
		{"missing file", "1700000000_missing.png", http.StatusNotFound, "", "FILE_NOT_FOUND"},
		{"not an image", "notes.txt", http.StatusBadRequest, "", "INVALID_FILE_TYPE"},
		{"parent directory", "..secret.png", http.StatusBadRequest, "", "INVALID_FILENAME"},
		{"escaped separator", `..%5Cconfig.png`, http.StatusBadRequest, "", "INVALID_FILENAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/uploads/"+tt.filename, nil)
			w := httptest.NewRecorder()
			uploadRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				return
			}
			assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
		})
	}

	t.Run("serves the stored bytes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/uploads/1700000000_shirt.png", nil)
		w := httptest.NewRecorder()
		uploadRouter().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, pngContent, w.Body.Bytes())
	})
}
