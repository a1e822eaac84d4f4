package filestorage

import (
	"mime/multipart"
)

// CVStorage defines the interface for instructor CV storage operations.
type CVStorage interface {
	// SaveCV validates and stores an uploaded CV PDF for the given
	// instructor, returning the stored filename.
	SaveCV(fileHeader *multipart.FileHeader, instructorID int64) (string, error)

	// CVPath returns the full filesystem path for a stored CV filename,
	// after validating the filename against the expected pattern for the
	// instructor. Returns an error when the name is malformed or the file
	// is missing.
	CVPath(instructorID int64, filename string) (string, error)

	// DeleteCV removes a stored CV file. Missing files are not an error.
	DeleteCV(filename string) error
}
