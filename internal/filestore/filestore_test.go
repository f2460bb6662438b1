package filestore

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	r := gin.New()
	NewHandler(New(dir)).RegisterRoutes(r.Group("/api"))
	return r, dir
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUpload_StoresFileAndReturnsMetadata(t *testing.T) {
	r, dir := newRouter(t)

	// %PDF magic makes DetectContentType report application/pdf
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 128)...)
	body, contentType := multipartBody(t, "file", "homework.pdf", content)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Filename     string `json:"filename"`
			OriginalName string `json:"original_name"`
			MimeType     string `json:"mime_type"`
			Size         int64  `json:"size"`
			URL          string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "homework.pdf", resp.Data.OriginalName)
	assert.Equal(t, "application/pdf", resp.Data.MimeType)
	assert.Equal(t, int64(len(content)), resp.Data.Size)
	assert.True(t, strings.HasPrefix(resp.Data.URL, "/static/uploads/"))
	assert.True(t, strings.HasSuffix(resp.Data.Filename, ".pdf"))

	var found []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			found = append(found, path)
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, found, 1)

	stored, err := os.ReadFile(found[0])
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestUpload_RejectsDisallowedType(t *testing.T) {
	r, _ := newRouter(t)

	// ELF magic bytes
	body, contentType := multipartBody(t, "file", "tool.bin", []byte{0x7f, 'E', 'L', 'F', 0, 0, 0, 0})

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FILE_TYPE")
}

func TestUpload_MissingFile(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_REQUIRED")
}

func TestSave_EmptyFileRejected(t *testing.T) {
	store := New(t.TempDir())

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	_, err := w.CreateFormFile("file", "empty.txt")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	fh := req.MultipartForm.File["file"][0]
	_, err = store.Save(fh)
	assert.ErrorIs(t, err, ErrEmptyFile)
}
