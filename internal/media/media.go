// Package media hands published files to the external media service and
// reports where they landed.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrUploaderUnavailable indicates no media uploader is configured.
	ErrUploaderUnavailable = errors.New("media uploader unavailable")
	// ErrStorageUnavailable indicates the object storage backend is not configured.
	ErrStorageUnavailable = errors.New("media storage unavailable")
	// ErrProberUnavailable indicates no duration prober is configured.
	ErrProberUnavailable = errors.New("media prober unavailable")
)

// Kind distinguishes playable media from still images.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// File is an uploaded file awaiting storage.
type File struct {
	Name        string
	ContentType string
	Kind        Kind
	Body        io.Reader
}

// Ext returns the lower-case extension of the original file name.
func (f File) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

// Storage persists file contents under a key and returns a public location.
// contentType may be empty when the uploader did not declare one.
type Storage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
