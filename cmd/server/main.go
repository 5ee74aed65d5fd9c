package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/7lmtv/rendezvous/internal/config"
	"github.com/7lmtv/rendezvous/internal/gateway"
	"github.com/7lmtv/rendezvous/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// MVP: Allow all origins
		// In production, validate origin
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting rendezvous server",
		logger.Int("port", cfg.Server.Port),
		logger.Int("max_connections", cfg.Server.MaxConnections),
		logger.String("static_dir", cfg.Server.StaticDir),
	)

	// Initialize hub
	hub := gateway.NewHub(cfg.Server)
	if err := hub.Start(); err != nil {
		logger.Fatal("Failed to start matchmaking hub",
			logger.ErrorField(err),
		)
	}
	defer hub.Stop()

	// Set up HTTP server
	router := mux.NewRouter()

	// WebSocket endpoint
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, w, r, cfg.Server)
	})

	// Health check endpoints
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	router.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	})

	// Stats endpoint
	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := hub.GetStats()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&stats)
	})

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Static client hosting, same process as the signaling endpoint
	if cfg.Server.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	// Start HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server",
				logger.ErrorField(err),
			)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down rendezvous server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down HTTP server",
			logger.ErrorField(err),
		)
	}

	logger.Info("Rendezvous server stopped")
}

// handleWebSocket upgrades the request and registers the connection with the hub
func handleWebSocket(hub *gateway.Hub, w http.ResponseWriter, r *http.Request, cfg config.ServerConfig) {
	if hub.ConnectionCount() >= cfg.MaxConnections {
		logger.Warn("Max connections reached, rejecting new connection",
			logger.Int("max_connections", cfg.MaxConnections),
		)
		http.Error(w, "Max connections reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade connection",
			logger.ErrorField(err),
		)
		return
	}

	// Identity is opaque, minted per connection, never reused
	connectionID := uuid.New().String()
	wsConn := gateway.NewConnection(connectionID, conn, cfg.SendBuffer)

	hub.Register(wsConn)

	logger.Info("WebSocket connection established",
		logger.String("connection_id", connectionID),
		logger.String("remote_addr", r.RemoteAddr),
	)
}
