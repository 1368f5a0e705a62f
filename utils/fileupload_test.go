package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileHeader builds a multipart.FileHeader with an overridable size
func newFileHeader(t *testing.T, filename string, size int64, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["image"], 1)
	fileHeader := form.File["image"][0]
	fileHeader.Size = size
	return fileHeader
}

func TestValidateImageFile(t *testing.T) {
	content := []byte("fake image content")

	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"png accepted", "dress.png", int64(len(content)), ""},
		{"jpg accepted", "dress.jpg", int64(len(content)), ""},
		{"jpeg accepted", "dress.jpeg", int64(len(content)), ""},
		{"extension is case insensitive", "dress.PNG", int64(len(content)), ""},
		{"gif rejected", "dress.gif", int64(len(content)), "INVALID_FILE_FORMAT"},
		{"no extension rejected", "dress", int64(len(content)), "INVALID_FILE_FORMAT"},
		{"too large", "dress.png", MaxFileSize + 1, "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageFile(newFileHeader(t, tt.filename, tt.size, content))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var fileErr *FileUploadError
			require.ErrorAs(t, err, &fileErr)
			assert.Equal(t, tt.wantCode, fileErr.Code)
		})
	}
}

func TestSaveUploadedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	content := []byte("png bytes")

	filename, err := SaveUploadedFile(newFileHeader(t, "shirt.png", int64(len(content)), content), dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, "_shirt.png"))

	saved, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestSaveUploadedFile_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	content := []byte("png bytes")

	filename, err := SaveUploadedFile(newFileHeader(t, "../../escape.png", int64(len(content)), content), dir)
	require.NoError(t, err)
	assert.NotContains(t, filename, "..")
	assert.FileExists(t, filepath.Join(dir, filename))
}

func TestGetImageURL(t *testing.T) {
	assert.Equal(t, "", GetImageURL(""))
	assert.Equal(t, "/api/v1/uploads/1_shirt.png", GetImageURL("1_shirt.png"))
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageContentType("shirt.png"))
	assert.Equal(t, "image/jpeg", ImageContentType("shirt.jpg"))
	assert.Equal(t, "image/jpeg", ImageContentType("SHIRT.JPEG"))
	assert.Equal(t, "", ImageContentType("shirt.gif"))
	assert.Equal(t, "", ImageContentType("shirt"))
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{Code: "TEST_CODE", Message: "Test error message"}
	assert.Equal(t, "Test error message", err.Error())
}
