package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// LocalStorage stores instructor CVs on the local filesystem under
// basePath/cv. Stored names follow "instructor_<id>_<uuid hex>.pdf" so
// serving can validate names without trusting the database blindly.
type LocalStorage struct {
	basePath  string
	maxSizeMB int
}

var pdfMagic = []byte("%PDF-")

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string, maxSizeMB int) (*LocalStorage, error) {
	cvDir := filepath.Join(basePath, "cv")
	if err := os.MkdirAll(cvDir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", cvDir).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", cvDir, err)
	}
	logger.Info().Str("path", cvDir).Msg("Local CV storage directory ensured")

	return &LocalStorage{
		basePath:  basePath,
		maxSizeMB: maxSizeMB,
	}, nil
}

// SaveCV validates the upload (extension, declared MIME type, size, PDF magic
// bytes) and writes it under a collision-free generated name.
func (ls *LocalStorage) SaveCV(fileHeader *multipart.FileHeader, instructorID int64) (string, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return "", fmt.Errorf("%w: missing file", apperrors.ErrInvalidCV)
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		return "", fmt.Errorf("%w: expected .pdf extension", apperrors.ErrInvalidCV)
	}

	// Declared content type is advisory; octet-stream is tolerated because
	// the magic-byte check below is authoritative.
	ctype := strings.ToLower(fileHeader.Header.Get("Content-Type"))
	if ctype != "" && !strings.Contains(ctype, "pdf") && ctype != "application/octet-stream" {
		return "", fmt.Errorf("%w: content type %q is not PDF", apperrors.ErrInvalidCV, ctype)
	}

	if fileHeader.Size > int64(ls.maxSizeMB)*1024*1024 {
		return "", fmt.Errorf("%w: file exceeds %d MB", apperrors.ErrInvalidCV, ls.maxSizeMB)
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(src, head); err != nil || string(head) != string(pdfMagic) {
		return "", fmt.Errorf("%w: content is not a PDF", apperrors.ErrInvalidCV)
	}

	storedName := fmt.Sprintf("instructor_%d_%s.pdf", instructorID, strings.ReplaceAll(uuid.New().String(), "-", ""))
	dstPath := filepath.Join(ls.basePath, "cv", storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", storedName).Int64("instructorID", instructorID).Msg("CV saved")
	return storedName, nil
}

// CVPath validates the stored filename pattern for the instructor and returns
// the full path, guarding against traversal via tampered database values.
func (ls *LocalStorage) CVPath(instructorID int64, filename string) (string, error) {
	pattern := fmt.Sprintf(`^instructor_%d_[a-f0-9]{32}\.pdf$`, instructorID)
	matched, err := regexp.MatchString(pattern, filename)
	if err != nil || !matched {
		return "", apperrors.ErrCVNotFound
	}

	path := filepath.Join(ls.basePath, "cv", filename)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", apperrors.ErrCVNotFound
	}
	return path, nil
}

// DeleteCV removes a stored CV file; a missing file is not an error.
func (ls *LocalStorage) DeleteCV(filename string) error {
	if filename == "" {
		return nil
	}
	path := filepath.Join(ls.basePath, "cv", filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to delete CV file")
		return err
	}
	return nil
}
