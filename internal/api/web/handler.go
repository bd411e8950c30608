package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/logger"
)

// Origin is the actor origin of commands received from the page.
const Origin = "web"

// Service abstracts the business operations the web layer depends on.
type Service interface {
	Apply(ctx context.Context, actor *stopwatch.Actor, cmd stopwatch.Command) (stopwatch.Snapshot, error)
	Snapshot(ctx context.Context) stopwatch.Snapshot
	Watch(ctx context.Context, send func(stopwatch.Snapshot) error) error
}

//go:embed static
var staticFiles embed.FS

// Handler routes the page, the WebSocket and the JSON endpoints.
type Handler struct {
	// ctx bounds the lifetime of WebSocket sessions and carries the logger.
	ctx context.Context //nolint:containedctx // Hijacked connections outlive request contexts.
	// service runs the commands.
	service Service
	// upgrader turns HTTP requests into WebSocket connections.
	upgrader websocket.Upgrader
	// mux holds the routes.
	mux *http.ServeMux
	// writeTimeout bounds every frame written to a session.
	writeTimeout time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithWriteTimeout sets the write deadline of WebSocket frames.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.writeTimeout = timeout
		}
	}
}

// WithAllowedOrigins lets pages from the listed origins open the WebSocket,
// in addition to same-origin pages. "*" allows any origin.
// Without allowed origins the same-origin check of the upgrader applies.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Handler) {
		if len(origins) == 0 {
			return
		}

		allowed := make(map[string]struct{}, len(origins))
		for _, origin := range origins {
			allowed[normalizeOrigin(origin)] = struct{}{}
		}

		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			if _, ok := allowed["*"]; ok {
				return true
			}

			if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
				return true
			}

			_, ok := allowed[normalizeOrigin(origin)]

			return ok
		}
	}
}

// normalizeOrigin lowercases an origin and drops a trailing slash.
func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

const (
	// defaultWriteTimeout is the write deadline of a single frame.
	defaultWriteTimeout = 5 * time.Second
	// bufferSize is the read and write buffer size of WebSocket connections.
	bufferSize = 1024
)

// NewHandler builds the web handler. Sessions end when ctx is canceled.
func NewHandler(ctx context.Context, service Service, opts ...Option) *Handler {
	h := &Handler{
		ctx:     ctx,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
		},
		mux:          http.NewServeMux(),
		writeTimeout: defaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(h)
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}

	h.mux.Handle("GET /", http.FileServerFS(static))
	h.mux.HandleFunc("GET /ws", h.serveWebSocket)
	h.mux.HandleFunc("GET /api/snapshot", h.serveSnapshot)
	h.mux.HandleFunc("POST /api/commands/{command}", h.serveCommand)

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logger.WarnKV(h.ctx, "WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)

		return
	}

	newSession(conn, h.service, r.RemoteAddr, h.writeTimeout).run(h.ctx)
}

func (h *Handler) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSnapshotFrame(h.service.Snapshot(r.Context())))
}

func (h *Handler) serveCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := stopwatch.ParseCommand(r.PathValue("command"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorFrame{Error: err.Error()})

		return
	}

	actor := &stopwatch.Actor{
		Hostname: r.RemoteAddr,
		Origin:   Origin,
	}

	snapshot, err := h.service.Apply(logger.ToContext(r.Context(), logger.FromContext(h.ctx)), actor, cmd)
	if err != nil {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, stopwatch.ErrUnknownCommand):
			status = http.StatusBadRequest
		case errors.Is(err, stopwatch.ErrClosed):
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, errorFrame{Error: err.Error()})

		return
	}

	writeJSON(w, http.StatusOK, newSnapshotFrame(snapshot))
}

// writeJSON replies with a JSON body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
