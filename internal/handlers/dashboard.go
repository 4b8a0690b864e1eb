package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DashboardHandler provides channel statistics and the channel video listing.
type DashboardHandler struct {
	Stats    StatsService
	Feed     FeedService
	PageSize int
}

// ChannelStats handles GET /api/v1/dashboard/stats/{channelId}.
func (h DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.Stats.ChannelStats(ctx, chi.URLParam(r, "channelId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats fetched successfully")
}

// Videos handles GET /api/v1/dashboard/videos/{channelId}.
func (h DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit, err := pageParams(r, h.PageSize)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	videos, err := h.Feed.ListChannelVideos(ctx, chi.URLParam(r, "channelId"), page, limit)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, videos, "channel videos fetched successfully")
}
