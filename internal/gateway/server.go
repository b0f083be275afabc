// Package gateway serves the voice-script HTTP surface the telephony
// provider calls back into: answer XML per intent, plus a liveness probe.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nextlevelbuilder/thermovote/internal/config"
	"github.com/nextlevelbuilder/thermovote/internal/intent"
	"github.com/nextlevelbuilder/thermovote/internal/voice"
)

// Server is the voice-script HTTP server.
type Server struct {
	cfg        config.GatewayConfig
	httpServer *http.Server
	mux        *http.ServeMux
}

// NewServer creates a gateway server.
func NewServer(cfg config.GatewayConfig) *Server {
	s := &Server{cfg: cfg}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/action-script/", s.handleActionScript)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// Handler returns the HTTP handler, useful for tests and extra listeners.
func (s *Server) Handler() http.Handler { return s.mux }

// Start runs the HTTP server until ctx is cancelled, then drains it.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("voice-script server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("voice-script server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// handleActionScript serves the answer XML for /action-script/{intent}.
// The provider polls this URL when the callee answers, and retries it on
// failure — so any unrecognized intent value still gets the generic script
// with a 200, never an error.
func (s *Server) handleActionScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/action-script/")
	i := intent.Parse(raw)

	body, err := voice.SpeakXML(voice.Script(i))
	if err != nil {
		slog.Error("could not render speak XML", "intent", raw, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Debug("served action script", "requested", raw, "intent", i.String())
	w.Header().Set("Content-Type", "application/xml")
	w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
