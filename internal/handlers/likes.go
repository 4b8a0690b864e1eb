package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/models"
)

// LikeHandler provides the like toggle endpoints.
type LikeHandler struct {
	Interactions InteractionService
}

type toggleFunc func(ctx context.Context, actorID, targetID string) (models.ToggleResult, error)

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Interactions.ToggleVideoLike, "videoId")
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Interactions.ToggleCommentLike, "commentId")
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Interactions.ToggleTweetLike, "tweetId")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, fn toggleFunc, param string) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	result, err := fn(ctx, actorID, chi.URLParam(r, param))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	message := "like removed"
	if result.Active {
		message = "like added"
	}
	respondData(ctx, w, http.StatusOK, result, message)
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	videos, err := h.Interactions.LikedVideos(ctx, actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, videos, "liked videos fetched successfully")
}
