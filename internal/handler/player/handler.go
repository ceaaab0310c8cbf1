package player

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/boucegame/HumanOrNot/internal/store"
	"github.com/boucegame/HumanOrNot/pkg/utils"
)

const defaultLimit = 10

// Handler serves persisted player records.
type Handler struct {
	records store.Store
}

// New creates the player handler.
func New(records store.Store) *Handler {
	return &Handler{
		records: records,
	}
}

// RegisterRoutes wires the player routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/players", h.handleTopPlayers)
	r.Get("/players/{identity}", h.handleGetPlayer)
}

// handleTopPlayers returns the leaderboard, best score first.
func (h *Handler) handleTopPlayers(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.records.Top(r.Context(), limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load players")
		return
	}
	utils.RespondJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if identity == "" {
		utils.RespondError(w, http.StatusBadRequest, "identity is required")
		return
	}

	record, ok, err := h.records.Find(r.Context(), identity)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load player")
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "player not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, record)
}

