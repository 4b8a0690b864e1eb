package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// TweetHandler provides the tweet endpoints.
type TweetHandler struct {
	Tweets TweetService
}

type tweetRequest struct {
	Content string `json:"content" validate:"notblank,max=280"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req tweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.Create(ctx, actorID, req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, tweet, "tweet created successfully")
}

// ListByUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweets, err := h.Tweets.ListByUser(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, tweets, "tweets fetched successfully")
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req tweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.Update(ctx, actorID, chi.URLParam(r, "tweetId"), req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, tweet, "tweet updated successfully")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Tweets.Delete(ctx, actorID, chi.URLParam(r, "tweetId")); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "tweet deleted successfully")
}
