package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/memoboard/internal/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
	logger   *slog.Logger
}

func NewSettingsHandler(settings *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

func (h *SettingsHandler) Font(w http.ResponseWriter, r *http.Request) {
	font, err := h.settings.Font()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, font)
}

func (h *SettingsHandler) UpdateFont(w http.ResponseWriter, r *http.Request) {
	var font service.FontSettings
	if err := json.NewDecoder(r.Body).Decode(&font); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.settings.UpdateFont(font); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
