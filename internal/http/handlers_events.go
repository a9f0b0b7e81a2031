package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/adgate-io/adgate/internal/data"
)

// AuthEventsLister reads back recorded authentication events.
type AuthEventsLister interface {
	Recent(ctx context.Context, username string, limit int) ([]data.AuthEvent, error)
}

// AuthEventHandlers exposes the audit trail to authenticated operators.
type AuthEventHandlers struct {
	Repo AuthEventsLister
}

// List returns recent auth events, newest first.
// GET /api/protected/auth-events?username=<optional>&limit=<optional>.
func (h *AuthEventHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_limit", Err: err})
			return
		}
		limit = parsed
	}

	events, err := h.Repo.Recent(r.Context(), r.URL.Query().Get("username"), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
