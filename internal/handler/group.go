package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/service"
	"github.com/dukerupert/memoboard/internal/websocket"
)

type GroupHandler struct {
	groups *service.GroupService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewGroupHandler(groups *service.GroupService, hub *websocket.Hub, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, hub: hub, logger: logger}
}

type groupRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
	Name     string     `json:"name"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	group, err := h.groups.Create(req.ParentID, req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("group", "created", group.ID))
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	group, err := h.groups.Rename(id, req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("group", "updated", group.ID))
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.groups.SoftDelete(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("group", "trashed", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "trashed"})
}

func (h *GroupHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.groups.Tree()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if tree == nil {
		tree = []*model.GroupNode{}
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *GroupHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	id, err := h.groups.GetOrCreateInboxID()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
