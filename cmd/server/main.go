package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/inamate/stage/internal/collab"
	"github.com/inamate/stage/internal/config"
	"github.com/inamate/stage/internal/export"
	mw "github.com/inamate/stage/internal/middleware"
	"github.com/inamate/stage/internal/scenes"
	"github.com/inamate/stage/internal/scenestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, err := cfg.Level()
	if err != nil {
		slog.Warn("falling back to info logging", "error", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := scenestore.NewStore(cfg.SceneDir)
	if err != nil {
		return err
	}
	sceneService := scenes.NewService(store)

	hub := collab.NewHub(cfg.Editor, sceneService.Load, sceneService.Save, slog.Default())
	sceneHandler := scenes.NewHandler(sceneService, hub)
	exportHandler := export.NewHandler(sceneHandler.Scene, cfg.Editor)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scenes", sceneHandler.List).Methods("GET")
	api.HandleFunc("/scenes", sceneHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/scenes/{roomId}", sceneHandler.Get).Methods("GET")
	api.HandleFunc("/scenes/{roomId}", sceneHandler.Delete).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/scenes/{roomId}/preview.png", exportHandler.Preview).Methods("GET")

	originHosts := mw.OriginHosts(cfg.AllowedOrigins)
	r.HandleFunc("/ws/scene/{roomId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, originHosts)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Saves every open room once the context ends.
		return hub.Run(gctx)
	})
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr, "scenes", cfg.SceneDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, originHosts []string) {
	roomID := mux.Vars(r)["roomId"]
	if err := scenestore.ValidateRoomID(roomID); err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	displayName := r.URL.Query().Get("name")
	if displayName == "" {
		displayName = "Anonymous"
	}
	userID := "anon-" + uuid.NewString()[:8]

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originHosts,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := collab.NewClient(hub, conn, userID, displayName, roomID)
	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
