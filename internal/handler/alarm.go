package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/memoboard/internal/service"
	"github.com/dukerupert/memoboard/internal/websocket"
)

type AlarmHandler struct {
	alarms *service.AlarmService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewAlarmHandler(alarms *service.AlarmService, hub *websocket.Hub, logger *slog.Logger) *AlarmHandler {
	return &AlarmHandler{alarms: alarms, hub: hub, logger: logger}
}

func (h *AlarmHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.alarms.Dismiss(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("note", "updated", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (h *AlarmHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.alarms.Snooze(id, req.Minutes); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("note", "updated", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "snoozed"})
}
