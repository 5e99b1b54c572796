package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"

	"github.com/staybnb/webserver/internal/logger"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidFilename     = errors.New("invalid file name")
	ErrFileTooLarge        = errors.New("uploaded file too large")
	ErrFilenameTooLong     = errors.New("file name too long")
)

// File is an image received with a listing form.
type File struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ObjectStore is the subset of storage.Storage the uploader needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Uploader stores listing images under their sanitized names. Two uploads
// that sanitize to the same name overwrite each other.
type Uploader struct {
	objects  ObjectStore
	maxBytes int64
}

func NewUploader(objects ObjectStore, maxBytes int64) *Uploader {
	return &Uploader{objects: objects, maxBytes: maxBytes}
}

// Store writes f and returns the stored filename. A nil file stores nothing
// and returns nil.
func (u *Uploader) Store(ctx context.Context, f *File) (*string, error) {
	if f == nil {
		return nil, nil
	}

	name := Sanitize(f.Filename)
	if name == "" {
		return nil, ErrInvalidFilename
	}
	if len(name) > MaxFilenameLength {
		return nil, ErrFilenameTooLong
	}
	if !Allowed(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, Extension(name))
	}
	if u.maxBytes > 0 && f.Size > u.maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := mime.TypeByExtension("." + Extension(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := u.objects.Put(ctx, name, f.Content, f.Size, contentType); err != nil {
		logger.FromContext(ctx).Err(err).Str("filename", name).Msg("store image failed")
		return nil, fmt.Errorf("store image %q: %w", name, err)
	}
	return &name, nil
}

// Remove deletes a previously stored image. Removing a name that is not
// stored is not an error.
func (u *Uploader) Remove(ctx context.Context, name string) error {
	if err := u.objects.Delete(ctx, name); err != nil {
		return fmt.Errorf("remove image %q: %w", name, err)
	}
	return nil
}
