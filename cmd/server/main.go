package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/ArtP10/prototype-partela-server/internal/config"
	"github.com/ArtP10/prototype-partela-server/internal/menu"
	"github.com/ArtP10/prototype-partela-server/internal/metrics"
	"github.com/ArtP10/prototype-partela-server/internal/registry"
	"github.com/ArtP10/prototype-partela-server/internal/socket"
	"github.com/ArtP10/prototype-partela-server/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	slog.Info("Configuration loaded",
		"environment", cfg.Environment,
		"restaurant", cfg.RestaurantName,
		"max_guests", cfg.MaxGuestsPerTable,
	)

	m := metrics.New()
	reg := registry.New(cfg, menu.GenerateGuestItems)
	hub := socket.NewHub(cfg, reg, m)
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", handleHealth(cfg))
	mux.HandleFunc("GET /api", handleAPIInfo)
	mux.HandleFunc("POST /api/tables", handleCreateTable)

	// Add logging and CORS middleware
	handler := loggingMiddleware(corsMiddleware(cfg, mux))

	// Wrap with h2c so plaintext HTTP/2 clients work behind a TLS-terminating proxy
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("Graceful shutdown incomplete", "error", err)
	}
	hub.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func handleHealth(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Environment,
		})
	}
}

// handleAPIInfo documents the realtime surface for anyone poking the HTTP
// side of the server.
func handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      "Partela",
		"transport": "websocket",
		"path":      "/ws",
		"events": map[string][]string{
			"client": {
				"table:join", "table:leave", "table:reset",
				"vote:cast", "vote:change",
				"split:toggle_item", "split:confirm",
				"payment:submit",
			},
			"server": {
				"table:state", "table:guest_joined", "table:guest_left",
				"vote:updated", "vote:tie", "vote:completed",
				"split:updated", "split:validated",
				"payment:received", "table:completed", "error",
			},
		},
	})
}

func handleCreateTable(w http.ResponseWriter, r *http.Request) {
	tableID := menu.GenerateTableID()
	slog.Info("Table code generated", "table_id", tableID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"tableId": tableID,
		"joinUrl": fmt.Sprintf("/?mesa=%s", tableID),
		"message": "Mesa creada. Comparte el código con tus acompañantes.",
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range cfg.CORSOrigins {
			if allowed == "*" || allowed == origin {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				break
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
