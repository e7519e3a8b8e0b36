package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maldun/UltraMekCore/config"
	"github.com/maldun/UltraMekCore/handlers"
	"github.com/maldun/UltraMekCore/messages"
	"github.com/maldun/UltraMekCore/metrics"
	"github.com/maldun/UltraMekCore/persistence"
	"github.com/maldun/UltraMekCore/services"
)

const shutdownTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The game client connects from a local origin
		return true
	},
}

func main() {
	configPath := flag.String("config", os.Getenv("ULTRAMEK_CONFIG"), "Path to YAML configuration file (env: ULTRAMEK_CONFIG)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	db, err := persistence.Open(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	defer db.Close()
	logger.Info("persistence initialized", "type", cfg.Store.Type)

	m := metrics.New()
	units := services.NewUnitService(cfg.Units.CustomDir, cfg.Units.ArchiveDir, db, m, logger)
	router := &handlers.Router{
		Units:   units,
		Forces:  services.NewForceService(units, m, logger),
		Boards:  services.NewBoardService(cfg.Boards.Dir, db, m, logger),
		Metrics: m,
	}
	clientManager := handlers.NewClientManager(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", handlers.WebSocketHandler(&upgrader, router, clientManager, logger))
	mux.Handle("POST /parse/{format}", router.ParseHandler(logger))
	mux.Handle(cfg.Server.MetricsPath, m.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "metrics", cfg.Server.MetricsPath)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "clients", clientManager.Count())
	clientManager.BroadcastToAll(messages.BaseMessage{
		Type:    messages.MessageTypeShutdown,
		Payload: messages.ShutdownMessage{Message: "server is shutting down"},
	})
	clientManager.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
