package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
)

// Prober reports the duration of a local media file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Uploader stores files in object storage. Video files are spooled to a
// temporary file first so their duration can be probed.
type Uploader struct {
	storage Storage
	prober  Prober
	logger  *slog.Logger
}

// NewUploader constructs an Uploader. prober may be nil, in which case video
// durations are reported as zero.
func NewUploader(storage Storage, prober Prober, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{storage: storage, prober: prober, logger: logger}
}

// Upload stores file and returns its public URL and, for videos, its duration.
func (u *Uploader) Upload(ctx context.Context, file File) (models.MediaAsset, error) {
	if u == nil || u.storage == nil {
		return models.MediaAsset{}, ErrStorageUnavailable
	}
	if file.Body == nil {
		return models.MediaAsset{}, fmt.Errorf("upload %s: empty body", file.Name)
	}

	key := path.Join(string(file.Kind), uuid.NewString()+file.Ext())

	if file.Kind != KindVideo || u.prober == nil {
		location, err := u.storage.Save(ctx, key, file.ContentType, file.Body)
		if err != nil {
			return models.MediaAsset{}, fmt.Errorf("store %s: %w", key, err)
		}
		return models.MediaAsset{URL: location}, nil
	}

	tmp, err := os.CreateTemp("", "upload-*"+file.Ext())
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("create spool file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, file.Body); err != nil {
		return models.MediaAsset{}, fmt.Errorf("spool %s: %w", file.Name, err)
	}

	duration, err := u.prober.Duration(ctx, tmp.Name())
	if err != nil {
		u.logger.Warn("probe media duration", "file", file.Name, "error", err)
		duration = 0
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return models.MediaAsset{}, fmt.Errorf("rewind spool file: %w", err)
	}

	location, err := u.storage.Save(ctx, key, file.ContentType, tmp)
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("store %s: %w", key, err)
	}

	return models.MediaAsset{URL: location, Duration: duration}, nil
}
