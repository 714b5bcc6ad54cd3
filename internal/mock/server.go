package mock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coi-exe/qrforge/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxLogs      = 1000
	maxBodyBytes = 1 << 20

	msgGenerateFailed = "Server error during QR generation."
	msgDownloadFailed = "Server error."
)

// Server is the reference rendering backend
type Server struct {
	config     *Config
	httpServer *http.Server
	listener   net.Listener
	logs       []RequestLog
	logsMutex  sync.RWMutex
	notifyCh   chan struct{} // Signals new log entries
}

// NewServer creates a new backend server
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Host == "" {
		config.Host = "localhost"
	}

	return &Server{
		config:   config,
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100),
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/download", s.handleDownload)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// Start listens on the configured address and serves in the background.
// Port 0 picks a free port; Address reports the one chosen.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("rendering backend stopped", "error", err)
		}
	}()

	slog.Info("rendering backend listening", "address", s.Address())
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the base URL clients should use
func (s *Server) Address() string {
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return "http://" + net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// decodeRequest applies the same defaults the web client relies on
func decodeRequest(w http.ResponseWriter, r *http.Request) (types.GenerationRequest, error) {
	req := types.GenerationRequest{
		Mode:            types.ModeURL,
		ErrorCorrection: types.ECMedium,
		Size:            10,
		Margin:          4,
		FgColor:         "#000000",
		BgColor:         "#ffffff",
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return req, inputErrorf("Invalid request body.")
	}
	if req.ErrorCorrection == "" {
		req.ErrorCorrection = types.ECMedium
	}
	return req, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.delay()

	req, err := decodeRequest(w, r)
	var rendered *Rendered
	if err == nil {
		rendered, err = Render(req)
	}

	if err != nil {
		status, msg := s.failure(err, msgGenerateFailed)
		s.record(r, req.Mode, status, msg, start)
		writeJSON(w, status, types.GenerationResult{Success: false, Error: msg})
		return
	}

	s.record(r, req.Mode, http.StatusOK, "", start)
	writeJSON(w, http.StatusOK, types.GenerationResult{
		Success:         true,
		Image:           "data:image/png;base64," + base64.StdEncoding.EncodeToString(rendered.PNG),
		DataString:      rendered.DataString,
		CharCount:       types.CharCount(rendered.DataString),
		ErrorCorrection: string(req.ErrorCorrection),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.delay()

	req, err := decodeRequest(w, r)
	var rendered *Rendered
	if err == nil {
		rendered, err = Render(req)
	}

	if err != nil {
		status, msg := s.failure(err, msgDownloadFailed)
		s.record(r, req.Mode, status, msg, start)
		writeJSON(w, status, types.GenerationResult{Success: false, Error: msg})
		return
	}

	s.record(r, req.Mode, http.StatusOK, "", start)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="qrforge.png"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(rendered.PNG)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered.PNG)
}

// failure maps an error to a status and the message shown to clients
func (s *Server) failure(err error, generic string) (int, string) {
	if IsInputError(err) {
		return http.StatusBadRequest, err.Error()
	}
	slog.Error("QR rendering failed", "error", err)
	return http.StatusInternalServerError, generic
}

func (s *Server) delay() {
	if s.config.Delay > 0 {
		time.Sleep(time.Duration(s.config.Delay) * time.Millisecond)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) record(r *http.Request, mode types.Mode, status int, errMsg string, start time.Time) {
	entry := RequestLog{
		Timestamp: start,
		Method:    r.Method,
		Path:      r.URL.Path,
		Mode:      string(mode),
		Status:    status,
		Error:     errMsg,
		Duration:  time.Since(start),
	}
	slog.Debug("backend request",
		"request_id", middleware.GetReqID(r.Context()),
		"path", entry.Path,
		"mode", entry.Mode,
		"status", entry.Status,
		"duration", entry.Duration)

	if s.config.Logging {
		s.logRequest(entry)
	}
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	// Notify listeners (non-blocking)
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns a copy of all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}
