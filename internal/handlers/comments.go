package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CommentHandler provides the comment endpoints.
type CommentHandler struct {
	Comments CommentService
	Feed     FeedService
	PageSize int
}

type commentRequest struct {
	Content string `json:"content" validate:"notblank,max=2000"`
}

// List handles GET /api/v1/comments/{videoId}.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit, err := pageParams(r, h.PageSize)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	comments, err := h.Feed.ListComments(ctx, chi.URLParam(r, "videoId"), page, limit)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, comments, "comments fetched successfully")
}

// Add handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	comment, err := h.Comments.Add(ctx, actorID, chi.URLParam(r, "videoId"), req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, comment, "comment added successfully")
}

// Update handles PATCH /api/v1/comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	comment, err := h.Comments.Update(ctx, actorID, chi.URLParam(r, "commentId"), req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, comment, "comment updated successfully")
}

// Delete handles DELETE /api/v1/comments/c/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Comments.Delete(ctx, actorID, chi.URLParam(r, "commentId")); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "comment deleted successfully")
}
