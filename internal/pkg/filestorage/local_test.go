package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

func uploadHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="cv"; filename="` + filename + `"`}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["cv"]
	require.Len(t, files, 1)
	return files[0]
}

func pdfBytes(filler int) []byte {
	return append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), filler)...)
}

func TestSaveCV(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), 1)
	require.NoError(t, err)

	t.Run("stores a valid PDF", func(t *testing.T) {
		fh := uploadHeader(t, "curriculum.pdf", "application/pdf", pdfBytes(100))

		stored, err := ls.SaveCV(fh, 7)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored, "instructor_7_"))
		assert.True(t, strings.HasSuffix(stored, ".pdf"))

		path, err := ls.CVPath(7, stored)
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
		assert.Len(t, raw, len(pdfBytes(100)))
	})

	t.Run("octet-stream content type tolerated", func(t *testing.T) {
		fh := uploadHeader(t, "cv.pdf", "application/octet-stream", pdfBytes(10))
		_, err := ls.SaveCV(fh, 8)
		assert.NoError(t, err)
	})

	t.Run("rejects wrong extension", func(t *testing.T) {
		fh := uploadHeader(t, "cv.docx", "application/pdf", pdfBytes(10))
		_, err := ls.SaveCV(fh, 7)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCV)
	})

	t.Run("rejects wrong content type", func(t *testing.T) {
		fh := uploadHeader(t, "cv.pdf", "image/png", pdfBytes(10))
		_, err := ls.SaveCV(fh, 7)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCV)
	})

	t.Run("rejects non-PDF content", func(t *testing.T) {
		fh := uploadHeader(t, "cv.pdf", "application/pdf", []byte("<html>not a pdf</html>"))
		_, err := ls.SaveCV(fh, 7)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCV)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		fh := uploadHeader(t, "cv.pdf", "application/pdf", pdfBytes(2*1024*1024))
		_, err := ls.SaveCV(fh, 7)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCV)
	})

	t.Run("rejects nil header", func(t *testing.T) {
		_, err := ls.SaveCV(nil, 7)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCV)
	})
}

func TestCVPath(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), 1)
	require.NoError(t, err)

	stored, err := ls.SaveCV(uploadHeader(t, "cv.pdf", "application/pdf", pdfBytes(10)), 7)
	require.NoError(t, err)

	t.Run("rejects other instructor's file", func(t *testing.T) {
		_, err := ls.CVPath(8, stored)
		assert.ErrorIs(t, err, apperrors.ErrCVNotFound)
	})

	t.Run("rejects traversal attempts", func(t *testing.T) {
		_, err := ls.CVPath(7, "../../etc/passwd")
		assert.ErrorIs(t, err, apperrors.ErrCVNotFound)
	})

	t.Run("rejects names off the generated pattern", func(t *testing.T) {
		_, err := ls.CVPath(7, "instructor_7_zz.pdf")
		assert.ErrorIs(t, err, apperrors.ErrCVNotFound)
	})
}

func TestDeleteCV(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, 1)
	require.NoError(t, err)

	stored, err := ls.SaveCV(uploadHeader(t, "cv.pdf", "application/pdf", pdfBytes(10)), 7)
	require.NoError(t, err)

	require.NoError(t, ls.DeleteCV(stored))
	_, statErr := os.Stat(filepath.Join(dir, "cv", stored))
	assert.True(t, os.IsNotExist(statErr))

	// Missing file and empty name are not errors
	assert.NoError(t, ls.DeleteCV(stored))
	assert.NoError(t, ls.DeleteCV(""))
}
