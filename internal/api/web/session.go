package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/logger"
)

const (
	// pongWait is how long the peer may stay silent before the session is dropped.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = pongWait * 9 / 10
	// maxFrameSize bounds command frames sent by the page.
	maxFrameSize = 512
)

// session is one connected page.
type session struct {
	// id identifies the session in logs.
	id string
	// conn is the WebSocket connection.
	conn *websocket.Conn
	// service runs the commands.
	service Service
	// actor is attached to every command of the session.
	actor *stopwatch.Actor
	// writeTimeout bounds every frame written.
	writeTimeout time.Duration
}

// newSession wraps an upgraded connection.
func newSession(conn *websocket.Conn, service Service, remoteAddr string, writeTimeout time.Duration) *session {
	id := uuid.NewString()

	return &session{
		id:      id,
		conn:    conn,
		service: service,
		actor: &stopwatch.Actor{
			Hostname: remoteAddr,
			Username: "session-" + id,
			Origin:   Origin,
		},
		writeTimeout: writeTimeout,
	}
}

// run pumps snapshots to the page and commands from it until either side
// goes away or ctx is canceled.
func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(logger.WithKV(ctx, "session_id", s.id))
	defer cancel()

	logger.InfoKV(ctx, "Browser session opened", "remote_addr", s.actor.Hostname)

	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)

		s.writePump(ctx)
		cancel()
	}()

	go func() {
		// Unblocks the read pump when the writer fails or the server shuts down.
		<-ctx.Done()
		_ = s.conn.Close()
	}()

	s.readPump(ctx)
	cancel()
	<-writerDone

	logger.InfoKV(ctx, "Browser session closed")
}

// readPump applies command frames until the connection fails.
func (s *session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(maxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				ctx.Err() == nil {
				logger.WarnKV(ctx, "Browser session read failed", "error", err)
			}

			return
		}

		var frame commandFrame
		if err = json.Unmarshal(message, &frame); err != nil {
			logger.WarnKV(ctx, "Malformed command frame", "error", err)

			continue
		}

		s.handle(ctx, frame)
	}
}

// handle applies a single command frame.
func (s *session) handle(ctx context.Context, frame commandFrame) {
	cmd, ok, err := frame.resolve()
	if err != nil {
		logger.WarnKV(ctx, "Unknown command frame", "command", frame.Command, "error", err)

		return
	}

	if !ok {
		return
	}

	// The resulting snapshot reaches the page through the write pump.
	if _, err = s.service.Apply(ctx, s.actor, cmd); err != nil {
		logger.ErrorKV(ctx, "Command failed", "command", cmd.String(), "error", err)
	}
}

// writePump forwards snapshots and keeps the connection alive with pings.
func (s *session) writePump(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deadline := time.Now().Add(s.writeTimeout)
				if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					cancel()

					return
				}
			}
		}
	}()

	err := s.service.Watch(ctx, func(snapshot stopwatch.Snapshot) error {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))

		return s.conn.WriteJSON(newSnapshotFrame(snapshot))
	})
	if err != nil && ctx.Err() == nil {
		logger.WarnKV(ctx, "Browser session write failed", "error", err)
	}

	closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(s.writeTimeout))
}
