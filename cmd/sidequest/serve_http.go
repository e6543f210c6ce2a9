package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sidequest/internal/app"
	"sidequest/internal/httpapi"
	"sidequest/internal/logging"
	"sidequest/internal/prefs"
)

func serveHTTPCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the JSON API for browser clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeHTTP(cmd, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.addr)")
	return cmd
}

func runServeHTTP(cmd *cobra.Command, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	auth, err := httpapi.NewAuthenticator(rt.cfg.HTTP.JWTSecret)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = rt.cfg.HTTP.Addr
	}
	if logging.IsProduction(rt.cfg.Log.Mode) {
		gin.SetMode(gin.ReleaseMode)
	}

	// Each identity gets its own boards, locks and undo queue. Display
	// preferences belong to the browser, so sessions keep them in memory.
	sessions := httpapi.NewSessions(func(identity string) *app.App {
		return rt.newApp(identity, prefs.InMemory())
	})
	server := httpapi.NewServer(httpapi.RouterConfig{
		Sessions:       sessions,
		Auth:           auth,
		Templates:      rt.set,
		AllowedOrigins: rt.cfg.HTTP.AllowedOrigins,
		Logger:         rt.log,
	})
	return server.Run(ctx, addr)
}
