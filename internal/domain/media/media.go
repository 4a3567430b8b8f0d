package media

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	// MaxImageSize is the largest accepted upload, 5 MiB.
	MaxImageSize = 5 << 20

	// URLTTL is how long a signed retrieval URL stays valid.
	URLTTL = time.Hour
)

// AllowedExtensions lists the accepted image extensions in lower case.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

var (
	ErrEmptyImage         = errors.New("media: image is empty")
	ErrInvalidType        = errors.New("media: image type not allowed")
	ErrInvalidSize        = errors.New("media: image exceeds 5 MiB")
	ErrStorageUnavailable = errors.New("media: store unavailable")
)

// UserMessage returns the field message shown for a media error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyImage):
		return "An image is required."
	case errors.Is(err, ErrInvalidType):
		return "Only .jpg, .jpeg, .png, and .gif files are allowed."
	case errors.Is(err, ErrInvalidSize):
		return "The image file size must not exceed 5MB."
	default:
		return "Failed to upload image to storage."
	}
}

// StoredImageRef identifies an object in the media store.
type StoredImageRef struct {
	Name        string
	ContentType string
	Size        int64
}

// IsZero reports whether the reference points at nothing.
func (r StoredImageRef) IsZero() bool { return r.Name == "" }

// Store is the object store images are written to.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)
}

// Extension returns the lower-cased extension of fileName, including the dot.
func Extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

// Validate checks an upload against the size and type rules. Size is checked
// before type, so an oversized file with a bad extension reports ErrInvalidSize.
func Validate(size int64, fileName string) error {
	if size <= 0 {
		return ErrEmptyImage
	}
	if size > MaxImageSize {
		return ErrInvalidSize
	}
	if !slices.Contains(AllowedExtensions, Extension(fileName)) {
		return ErrInvalidType
	}
	return nil
}
