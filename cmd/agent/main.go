package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mustafayusufaksoy/camlica360/internal/config"
	appHTTP "github.com/mustafayusufaksoy/camlica360/internal/handler/http"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/apiclient"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/cron"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/database"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/identity"
	"github.com/mustafayusufaksoy/camlica360/internal/repository/sqlite"
	attendanceService "github.com/mustafayusufaksoy/camlica360/internal/service/attendance"
	geofenceService "github.com/mustafayusufaksoy/camlica360/internal/service/geofence"
	locationService "github.com/mustafayusufaksoy/camlica360/internal/service/location"
	trackerService "github.com/mustafayusufaksoy/camlica360/internal/service/tracker"
	workplaceService "github.com/mustafayusufaksoy/camlica360/internal/service/workplace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	db, err := database.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}
	defer db.Close()

	queueRepo := sqlite.NewPendingQueueRepository(db)

	tokenStore := identity.NewTokenStore(cfg.Identity.TokenPath)
	identityProvider := identity.NewTokenProvider(tokenStore)

	client := apiclient.NewClient(cfg.API.BaseURL, cfg.API.Timeout, identityProvider)

	gpsdSource := locationService.NewGPSDSource(cfg.Location.GPSDAddr)
	locationProvider := locationService.NewService(gpsdSource)

	monitor := geofenceService.NewMonitor()
	workplaceSvc := workplaceService.NewService(client, identityProvider, monitor)
	attendanceSvc := attendanceService.NewService(queueRepo, client, identityProvider)
	trackerSvc := trackerService.NewService(
		locationProvider,
		monitor,
		workplaceSvc,
		attendanceSvc,
		cfg.Sync.RefreshInterval,
	)

	resync := cron.NewResyncScheduler(
		"attendance-resync",
		cfg.Sync.ResyncInterval,
		cfg.Sync.TaskDeadline,
		attendanceSvc.SyncPendingLogs,
	)
	resync.Schedule()
	defer resync.Stop()
	defer trackerSvc.StopTracking()

	authHandler := appHTTP.NewAuthHandler(tokenStore, identityProvider)
	trackerHandler := appHTTP.NewTrackerHandler(trackerSvc, attendanceSvc)
	workplaceHandler := appHTTP.NewWorkplaceHandler(workplaceSvc)
	router := appHTTP.NewRouter(cfg.App.Env, authHandler, trackerHandler, workplaceHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.App.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("Agent listening on", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal("Server error:", err)
	case sig := <-stop:
		log.Println("Shutting down on signal:", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Server shutdown:", err)
	}
}
