// Package httpapi serves the card workflow as a JSON API for a browser
// client. Requests carry an HS256 bearer token whose subject is the identity.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sidequest/internal/logging"
	"sidequest/internal/templates"
)

type RouterConfig struct {
	Sessions       *Sessions
	Auth           *Authenticator
	Templates      *templates.Set
	AllowedOrigins []string
	Logger         *logging.Logger
}

func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}

	h := NewHandlers(cfg.Sessions, cfg.Templates, cfg.Logger)
	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	api.GET("/themes", h.Themes)

	authed := api.Group("")
	authed.Use(cfg.Auth.RequireAuth())
	{
		authed.POST("/quests/generate", h.GenerateQuest)
		authed.POST("/npcs/generate", h.GenerateNPC)

		authed.GET("/cards/:id", h.GetCard)
		authed.PATCH("/cards/:id", h.EditCard)
		authed.DELETE("/cards/:id", h.DeleteCard)
		authed.POST("/cards/:id/locks/:key", h.ToggleLock)
		authed.POST("/cards/:id/collapse", h.ToggleCollapse)
		authed.POST("/cards/:id/tags", h.AddTag)
		authed.DELETE("/cards/:id/tags/:tag", h.RemoveTag)
		authed.POST("/cards/:id/save", h.SaveCard)
		authed.GET("/cards/:id/export", h.ExportCard)
		authed.POST("/cards/:id/undo", h.UndoCard)
		authed.POST("/cards/:id/confirm-delete", h.ConfirmDelete)
		authed.POST("/undo", h.UndoLatest)

		authed.GET("/saved/:kind", h.Saved)
		authed.POST("/roll", h.Roll)
		authed.GET("/notices", h.Notices)

		authed.GET("/prefs", h.Preferences)
		authed.POST("/prefs/display/toggle", h.ToggleDisplay)
		authed.PUT("/prefs/theme", h.SetGeneratorTheme)
	}
	return r
}

type Server struct {
	Engine   *gin.Engine
	sessions *Sessions
	log      *logging.Logger
}

func NewServer(cfg RouterConfig) *Server {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Server{Engine: NewRouter(cfg), sessions: cfg.Sessions, log: log}
}

// Run serves on addr until ctx ends, then shuts down and commits every
// session's pending deletions.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if cerr := s.sessions.Close(shutdownCtx); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}
