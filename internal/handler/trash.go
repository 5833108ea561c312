package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/service"
	"github.com/dukerupert/memoboard/internal/websocket"
)

type TrashHandler struct {
	trash  *service.TrashService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTrashHandler(trash *service.TrashService, hub *websocket.Hub, logger *slog.Logger) *TrashHandler {
	return &TrashHandler{trash: trash, hub: hub, logger: logger}
}

func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.trash.Items()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []model.TrashItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Kind model.TrashKind `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	switch req.Kind {
	case model.TrashNote:
		err = h.trash.RestoreNote(id)
	case model.TrashGroup:
		err = h.trash.RestoreGroup(id)
	default:
		writeError(w, http.StatusBadRequest, "kind must be group or note")
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage(string(req.Kind), "restored", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func (h *TrashHandler) DeletePermanently(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Kind model.TrashKind `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Kind != model.TrashGroup && req.Kind != model.TrashNote {
		writeError(w, http.StatusBadRequest, "kind must be group or note")
		return
	}

	if err := h.trash.DeletePermanently(id, req.Kind); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage(string(req.Kind), "purged", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *TrashHandler) Empty(w http.ResponseWriter, r *http.Request) {
	if err := h.trash.EmptyTrash(); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.Message{Type: "trash_emptied"})
	writeJSON(w, http.StatusOK, map[string]string{"status": "emptied"})
}
