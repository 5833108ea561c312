package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/service"
	"github.com/dukerupert/memoboard/internal/websocket"
)

type NoteHandler struct {
	notes  *service.NoteService
	alarms *service.AlarmService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewNoteHandler(notes *service.NoteService, alarms *service.AlarmService, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, alarms: alarms, hub: hub, logger: logger}
}

type noteRequest struct {
	GroupID uuid.UUID `json:"group_id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`

	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	FontWeight string  `json:"font_weight"`
	FontStyle  string  `json:"font_style"`
	Underline  bool    `json:"underline"`
	FontColor  string  `json:"font_color"`

	AlarmEnabled bool             `json:"alarm_enabled"`
	AlarmAt      *time.Time       `json:"alarm_at"`
	TimeZoneID   string           `json:"time_zone_id"`
	Repeat       model.RepeatType `json:"repeat"`
	RepeatEndAt  *time.Time       `json:"repeat_end_at"`
}

func (r noteRequest) toInput() service.NoteInput {
	return service.NoteInput{
		GroupID:      r.GroupID,
		Title:        r.Title,
		Content:      r.Content,
		FontFamily:   r.FontFamily,
		FontSize:     r.FontSize,
		FontWeight:   r.FontWeight,
		FontStyle:    r.FontStyle,
		Underline:    r.Underline,
		FontColor:    r.FontColor,
		AlarmEnabled: r.AlarmEnabled,
		AlarmAt:      r.AlarmAt,
		TimeZoneID:   r.TimeZoneID,
		Repeat:       r.Repeat,
		RepeatEndAt:  r.RepeatEndAt,
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !req.Repeat.Valid() {
		writeError(w, http.StatusBadRequest, "invalid repeat kind")
		return
	}

	note, err := h.notes.Create(req.toInput())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("note", "created", note.ID))
	writeJSON(w, http.StatusCreated, note)
}

// Update overwrites the full field set, then runs the alarm normalization
// pass the same way the desktop editor does after every save.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !req.Repeat.Valid() {
		writeError(w, http.StatusBadRequest, "invalid repeat kind")
		return
	}

	note, err := h.notes.Update(id, req.toInput())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.alarms.ScheduleOrUpdate(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("note", "updated", note.ID))
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		GroupID uuid.UUID `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.notes.Move(id, req.GroupID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("note", "moved", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.notes.SoftDelete(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.Broadcast(websocket.ChangeMessage("note", "trashed", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "trashed"})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, err := h.notes.Get(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) ByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.PathValue("group_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	notes, err := h.notes.ByGroup(groupID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}
