package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/memoboard/internal/handler"
	"github.com/dukerupert/memoboard/internal/middleware"
	"github.com/dukerupert/memoboard/internal/push"
	"github.com/dukerupert/memoboard/internal/service"
	"github.com/dukerupert/memoboard/internal/store"
	ws "github.com/dukerupert/memoboard/internal/websocket"
)

type Server struct {
	db        *sql.DB
	hub       *ws.Hub
	groupH    *handler.GroupHandler
	noteH     *handler.NoteHandler
	trashH    *handler.TrashHandler
	alarmH    *handler.AlarmHandler
	settingsH *handler.SettingsHandler
	stickyH   *handler.StickyHandler
	pushH     *handler.PushHandler
	groupSvc  *service.GroupService
	alarmSvc  *service.AlarmService
	trashSvc  *service.TrashService
	logger    *slog.Logger
}

func New(db *sql.DB, pushCfg push.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	pushStore := store.NewPushStore(db)
	pushSvc := push.NewService(pushCfg, pushStore, logger.With("component", "push"))

	groupSvc := service.NewGroupService(db, logger.With("component", "group"))
	noteSvc := service.NewNoteService(db, groupSvc, logger.With("component", "note"))
	trashSvc := service.NewTrashService(db, groupSvc, logger.With("component", "trash"))
	alarmSvc := service.NewAlarmService(db, pushSvc, hub, logger.With("component", "alarm"))
	settingsSvc := service.NewSettingsService(db)
	stickySvc := service.NewStickyService(db)

	return &Server{
		db:        db,
		hub:       hub,
		groupH:    handler.NewGroupHandler(groupSvc, hub, logger.With("component", "group_handler")),
		noteH:     handler.NewNoteHandler(noteSvc, alarmSvc, hub, logger.With("component", "note_handler")),
		trashH:    handler.NewTrashHandler(trashSvc, hub, logger.With("component", "trash_handler")),
		alarmH:    handler.NewAlarmHandler(alarmSvc, hub, logger.With("component", "alarm_handler")),
		settingsH: handler.NewSettingsHandler(settingsSvc, logger.With("component", "settings_handler")),
		stickyH:   handler.NewStickyHandler(stickySvc, logger.With("component", "sticky_handler")),
		pushH:     handler.NewPushHandler(pushSvc, pushStore, logger.With("component", "push_handler")),
		groupSvc:  groupSvc,
		alarmSvc:  alarmSvc,
		trashSvc:  trashSvc,
		logger:    logger,
	}
}

// GroupService returns the group service for startup seeding.
func (s *Server) GroupService() *service.GroupService {
	return s.groupSvc
}

// AlarmService returns the alarm service for the background worker.
func (s *Server) AlarmService() *service.AlarmService {
	return s.alarmSvc
}

// TrashService returns the trash service for the background worker.
func (s *Server) TrashService() *service.TrashService {
	return s.trashSvc
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.Handler(s.hub))

	// Group API routes
	mux.HandleFunc("POST /api/groups", s.groupH.Create)
	mux.HandleFunc("GET /api/groups", s.groupH.Tree)
	mux.HandleFunc("GET /api/groups/inbox", s.groupH.Inbox)
	mux.HandleFunc("PUT /api/groups/{id}", s.groupH.Rename)
	mux.HandleFunc("DELETE /api/groups/{id}", s.groupH.Delete)

	// Note API routes
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("GET /api/notes/{id}", s.noteH.Get)
	mux.HandleFunc("PUT /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)
	mux.HandleFunc("POST /api/notes/{id}/move", s.noteH.Move)
	mux.HandleFunc("GET /api/groups/{group_id}/notes", s.noteH.ByGroup)

	// Alarm API routes
	mux.HandleFunc("POST /api/notes/{id}/alarm/dismiss", s.alarmH.Dismiss)
	mux.HandleFunc("POST /api/notes/{id}/alarm/snooze", s.alarmH.Snooze)

	// Sticky window state routes
	mux.HandleFunc("GET /api/notes/{id}/window", s.stickyH.Get)
	mux.HandleFunc("PUT /api/notes/{id}/window", s.stickyH.Save)

	// Trash API routes
	mux.HandleFunc("GET /api/trash", s.trashH.List)
	mux.HandleFunc("POST /api/trash/{id}/restore", s.trashH.Restore)
	mux.HandleFunc("DELETE /api/trash/{id}", s.trashH.DeletePermanently)
	mux.HandleFunc("POST /api/trash/empty", s.trashH.Empty)

	// Settings API routes
	mux.HandleFunc("GET /api/settings/font", s.settingsH.Font)
	mux.HandleFunc("PUT /api/settings/font", s.settingsH.UpdateFont)

	// Push notification API routes
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
