package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SubscriptionHandler provides the subscription endpoints.
type SubscriptionHandler struct {
	Interactions InteractionService
	Feed         FeedService
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	result, err := h.Interactions.ToggleSubscription(ctx, actorID, chi.URLParam(r, "channelId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	message := "unsubscribed successfully"
	if result.Active {
		message = "subscribed successfully"
	}
	respondData(ctx, w, http.StatusOK, result, message)
}

// Subscribers handles GET /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscribers, err := h.Feed.ListSubscribers(ctx, chi.URLParam(r, "channelId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, subscribers, "subscribers fetched successfully")
}

// Subscriptions handles GET /api/v1/subscriptions/u for the acting user.
func (h SubscriptionHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	channels, err := h.Feed.ListSubscriptions(ctx, actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, channels, "subscribed channels fetched successfully")
}
