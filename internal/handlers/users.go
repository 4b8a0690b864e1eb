package handlers

import "net/http"

// UserHandler provides endpoints scoped to the acting user.
type UserHandler struct {
	Videos VideoService
}

// History handles GET /api/v1/users/history.
func (h UserHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireActor(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	history, err := h.Videos.WatchHistory(ctx, actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, history, "watch history fetched successfully")
}
