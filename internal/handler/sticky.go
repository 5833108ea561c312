package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/service"
)

type StickyHandler struct {
	sticky *service.StickyService
	logger *slog.Logger
}

func NewStickyHandler(sticky *service.StickyService, logger *slog.Logger) *StickyHandler {
	return &StickyHandler{sticky: sticky, logger: logger}
}

func (h *StickyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	state, err := h.sticky.Get(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "no window state")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *StickyHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var state model.StickyWindowState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	state.NoteID = id

	if err := h.sticky.Save(state); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
