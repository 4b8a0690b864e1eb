package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/catalog"
	"github.com/vidtube/backend/internal/feed"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
)

// multipartMemory bounds the part of an upload held in memory; the rest is
// spooled to disk by net/http.
const multipartMemory = 32 << 20

// VideoHandler provides the video catalog and feed endpoints.
type VideoHandler struct {
	Videos   VideoService
	Feed     FeedService
	PageSize int
}

type publishVideoForm struct {
	Title       string `form:"title" validate:"notblank,max=200"`
	Description string `form:"description" validate:"max=5000"`
}

type updateVideoRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Thumbnail   *string `json:"thumbnail" validate:"omitempty,notblank"`
}

// List handles GET /api/v1/videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit, err := pageParams(r, h.PageSize)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	q := r.URL.Query()
	videos, err := h.Feed.ListVideos(ctx, feed.VideoParams{
		Query:    q.Get("query"),
		OwnerID:  q.Get("userId"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, videos, "videos fetched successfully")
}

// Publish handles POST /api/v1/videos with a multipart body carrying
// videoFile, thumbnail, title and description.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respondError(ctx, w, apperrors.Validation("expected a multipart form body"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := publishVideoForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if err := validate.Validate(form); err != nil {
		respondError(ctx, w, err)
		return
	}

	videoFile, closeVideo, err := formFile(r, "videoFile", media.KindVideo)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	defer closeVideo()
	thumbnail, closeThumb, err := formFile(r, "thumbnail", media.KindImage)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	defer closeThumb()

	video, err := h.Videos.Publish(ctx, actorID, catalog.PublishInput{
		Title:       form.Title,
		Description: form.Description,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, video, "video published successfully")
}

// Get handles GET /api/v1/videos/{videoId}.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.Get(ctx, actorID, chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, video, "video fetched successfully")
}

// Update handles PATCH /api/v1/videos/{videoId}.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req updateVideoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.Update(ctx, actorID, chi.URLParam(r, "videoId"), models.VideoPatch{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, video, "video updated successfully")
}

// Delete handles DELETE /api/v1/videos/{videoId}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Videos.Delete(ctx, actorID, chi.URLParam(r, "videoId")); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "video deleted successfully")
}

// TogglePublish handles PATCH /api/v1/videos/{videoId}/publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.TogglePublish(ctx, actorID, chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, video, "publish status toggled successfully")
}

// formFile returns the named upload, or nil when it is absent. The returned
// func closes the underlying file.
func formFile(r *http.Request, field string, kind media.Kind) (*media.File, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperrors.Validation("invalid " + field + " upload")
	}
	return &media.File{
		Name:        header.Filename,
		ContentType: contentType(header),
		Kind:        kind,
		Body:        file,
	}, func() { _ = file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
