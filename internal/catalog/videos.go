// Package catalog implements the ownership-scoped lifecycle of videos, tweets
// and comments. Every mutation is keyed on both the record identifier and the
// acting owner so authorization and mutation happen in one store operation.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// VideoStore persists videos and watch history.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	// RecordView increments the view counter of videoID, appends it to the
	// viewer's watch history and returns the enriched video.
	RecordView(ctx context.Context, viewerID, videoID string, at time.Time) (models.EnrichedVideo, error)
	Update(ctx context.Context, ownerID, videoID string, patch models.VideoPatch, at time.Time) (models.Video, error)
	Delete(ctx context.Context, ownerID, videoID string) error
	TogglePublish(ctx context.Context, ownerID, videoID string, at time.Time) (models.Video, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)
}

// MediaUploader hands files to the external media service.
type MediaUploader interface {
	Upload(ctx context.Context, file media.File) (models.MediaAsset, error)
}

// PublishInput carries a new video and its files.
type PublishInput struct {
	Title       string
	Description string
	VideoFile   *media.File
	Thumbnail   *media.File
}

// Videos manages the video catalog.
type Videos struct {
	store    VideoStore
	uploader MediaUploader
	NowFunc  func() time.Time
}

// NewVideos constructs the video catalog service.
func NewVideos(store VideoStore, uploader MediaUploader) *Videos {
	return &Videos{store: store, uploader: uploader}
}

// Publish uploads the video and thumbnail and records a new published video
// owned by the actor.
func (v *Videos) Publish(ctx context.Context, actorID string, in PublishInput) (models.Video, error) {
	actorID, err := ids.Parse("user", actorID)
	if err != nil {
		return models.Video{}, err
	}
	if in.VideoFile == nil || in.Thumbnail == nil {
		return models.Video{}, apperrors.Validation("video file and thumbnail are required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Video{}, apperrors.Validation("title is required")
	}
	if v.uploader == nil {
		return models.Video{}, apperrors.UpstreamFailure("media uploads are not configured", media.ErrUploaderUnavailable)
	}

	ctx, span := logging.StartSpan(ctx, "catalog.publish_video")
	defer span.End()
	logger := logging.FromContext(ctx)

	videoAsset, err := v.uploader.Upload(ctx, *in.VideoFile)
	if err != nil || videoAsset.URL == "" {
		logger.Error("video upload failed", "error", err)
		return models.Video{}, apperrors.UpstreamFailure("error uploading video file", err)
	}
	thumbAsset, err := v.uploader.Upload(ctx, *in.Thumbnail)
	if err != nil || thumbAsset.URL == "" {
		logger.Error("thumbnail upload failed", "error", err)
		return models.Video{}, apperrors.UpstreamFailure("error uploading thumbnail", err)
	}

	now := v.now()
	video := models.Video{
		ID:          ids.New(),
		OwnerID:     actorID,
		Title:       title,
		Description: in.Description,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbAsset.URL,
		Duration:    max(videoAsset.Duration, 0),
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := v.store.Create(ctx, video); err != nil {
		return models.Video{}, apperrors.Internal("failed to publish video", err)
	}

	logger.Info("video published", slog.String("video_id", video.ID))
	return video, nil
}

// Get returns a video and records the view in the actor's watch history.
func (v *Videos) Get(ctx context.Context, actorID, videoID string) (models.EnrichedVideo, error) {
	videoID, err := ids.Parse("video", videoID)
	if err != nil {
		return models.EnrichedVideo{}, err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return models.EnrichedVideo{}, err
	}

	video, err := v.store.RecordView(ctx, actorID, videoID, v.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.EnrichedVideo{}, apperrors.NotFound("video not found")
		}
		return models.EnrichedVideo{}, apperrors.Internal("failed to fetch video", err)
	}
	return video, nil
}

// Update applies patch to a video owned by the actor.
func (v *Videos) Update(ctx context.Context, actorID, videoID string, patch models.VideoPatch) (models.Video, error) {
	videoID, err := ids.Parse("video", videoID)
	if err != nil {
		return models.Video{}, err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return models.Video{}, err
	}
	if patch.Empty() {
		return models.Video{}, apperrors.Validation("no fields to update")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Video{}, apperrors.Validation("title cannot be empty")
		}
		patch.Title = &title
	}

	video, err := v.store.Update(ctx, actorID, videoID, patch, v.now())
	if err != nil {
		return models.Video{}, notOwned(err, "video", "update")
	}
	return video, nil
}

// Delete removes a video owned by the actor.
func (v *Videos) Delete(ctx context.Context, actorID, videoID string) error {
	videoID, err := ids.Parse("video", videoID)
	if err != nil {
		return err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return err
	}

	if err := v.store.Delete(ctx, actorID, videoID); err != nil {
		return notOwned(err, "video", "delete")
	}
	logging.FromContext(ctx).Info("video deleted", slog.String("video_id", videoID))
	return nil
}

// TogglePublish flips the published flag of a video owned by the actor.
func (v *Videos) TogglePublish(ctx context.Context, actorID, videoID string) (models.Video, error) {
	videoID, err := ids.Parse("video", videoID)
	if err != nil {
		return models.Video{}, err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return models.Video{}, err
	}

	video, err := v.store.TogglePublish(ctx, actorID, videoID, v.now())
	if err != nil {
		return models.Video{}, notOwned(err, "video", "update")
	}
	return video, nil
}

// WatchHistory lists the actor's watched videos in first-watch order.
func (v *Videos) WatchHistory(ctx context.Context, actorID string) ([]models.WatchEntry, error) {
	actorID, err := ids.Parse("user", actorID)
	if err != nil {
		return nil, err
	}

	history, err := v.store.WatchHistory(ctx, actorID)
	if err != nil {
		return nil, apperrors.Internal("failed to load watch history", err)
	}
	if history == nil {
		history = []models.WatchEntry{}
	}
	return history, nil
}

func (v *Videos) now() time.Time {
	if v.NowFunc != nil {
		return v.NowFunc()
	}
	return time.Now().UTC()
}

// notOwned maps a store miss on an ownership-scoped mutation to NotFound.
func notOwned(err error, entity, verb string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(entity + " not found or not authorized to " + verb)
	}
	return apperrors.Internal("failed to "+verb+" "+entity, err)
}

// requireText trims s and rejects it when blank.
func requireText(s, msg string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.Validation(msg)
	}
	return s, nil
}
