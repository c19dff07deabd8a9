package handler

import (
	"errors"
	"net/http"

	"github.com/jmhart/world-conquest/internal/auth"
	"github.com/jmhart/world-conquest/internal/repository"
	"github.com/jmhart/world-conquest/internal/service"
	"github.com/jmhart/world-conquest/pkg/risk"
)

// MoveHandler handles board state and move endpoints.
type MoveHandler struct {
	moveSvc *service.MoveService
}

// NewMoveHandler creates a MoveHandler.
func NewMoveHandler(moveSvc *service.MoveService) *MoveHandler {
	return &MoveHandler{moveSvc: moveSvc}
}

// GetState handles GET /api/v1/games/{id}/state
func (h *MoveHandler) GetState(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	gs, err := h.moveSvc.GetState(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// SubmitMove handles POST /api/v1/games/{id}/moves
func (h *MoveHandler) SubmitMove(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Kind   string `json:"kind"`
		From   string `json:"from,omitempty"`
		To     string `json:"to,omitempty"`
		Troops int    `json:"troops,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mv := risk.Move{Kind: risk.MoveKind(req.Kind), Player: userID, From: req.From, To: req.To, Troops: req.Troops}
	gs, outcome, err := h.moveSvc.SubmitMove(r.Context(), gameID, userID, mv)
	if err != nil {
		var verr *risk.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusUnprocessableEntity, verr.Message)
		case errors.Is(err, service.ErrGameNotFound):
			writeError(w, http.StatusNotFound, "game not found")
		case errors.Is(err, service.ErrGameNotActive):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotInGame):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, repository.ErrConflict):
			writeError(w, http.StatusConflict, "game state changed, retry")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp := map[string]any{"state": gs}
	if outcome != nil {
		resp["outcome"] = outcome
	}
	writeJSON(w, http.StatusOK, resp)
}

// LegalMoves handles GET /api/v1/games/{id}/moves/legal
func (h *MoveHandler) LegalMoves(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	moves, err := h.moveSvc.LegalMoves(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if moves == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, moves)
}

// ListMoves handles GET /api/v1/games/{id}/moves
func (h *MoveHandler) ListMoves(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	moves, err := h.moveSvc.ListMoves(r.Context(), gameID, 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if moves == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, moves)
}

// GetTutorial handles GET /api/v1/games/{id}/tutorial
func (h *MoveHandler) GetTutorial(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	writeJSON(w, http.StatusOK, h.moveSvc.Tutorial(gameID))
}

// AdvanceTutorial handles POST /api/v1/games/{id}/tutorial/continue
func (h *MoveHandler) AdvanceTutorial(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	tut, err := h.moveSvc.AdvanceTutorial(r.Context(), gameID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotInGame) {
			status = http.StatusForbidden
		} else if errors.Is(err, service.ErrTutorialDone) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tut)
}
