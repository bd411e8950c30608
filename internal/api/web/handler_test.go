package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/service/hub"
)

// manualScheduler never fires; tests only look at command-driven snapshots.
type manualScheduler struct{}

// Every returns a handle that does nothing.
func (manualScheduler) Every(time.Duration, func()) stopwatch.Handle {
	return manualHandle{}
}

// manualHandle is the no-op handle of manualScheduler.
type manualHandle struct{}

// Cancel does nothing.
func (manualHandle) Cancel() {}

// engineService is a minimal Service backed by a real engine and hub.
type engineService struct {
	// engine is the stopwatch under test.
	engine *stopwatch.Engine
	// hub fans out engine snapshots.
	hub *hub.Hub
	// actors counts commands per origin.
	actors atomic.Int32
}

// newEngineService builds an engine on a clock that advances by step on every read.
func newEngineService(step time.Duration) *engineService {
	var (
		base  = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
		reads atomic.Int64
		svc   = &engineService{hub: hub.New()}
	)

	svc.engine = stopwatch.New(
		stopwatch.WithClock(stopwatch.ClockFunc(func() time.Time {
			return base.Add(time.Duration(reads.Add(1)) * step)
		})),
		stopwatch.WithScheduler(manualScheduler{}),
		stopwatch.WithListener(svc.hub.Publish),
	)

	return svc
}

// Apply runs the command on the engine.
func (s *engineService) Apply(_ context.Context, actor *stopwatch.Actor, cmd stopwatch.Command) (stopwatch.Snapshot, error) {
	if actor != nil && actor.Origin == Origin {
		s.actors.Add(1)
	}

	return s.engine.Apply(cmd)
}

// Snapshot reads the engine.
func (s *engineService) Snapshot(context.Context) stopwatch.Snapshot {
	return s.engine.Snapshot()
}

// Watch sends the current snapshot and then every published one.
func (s *engineService) Watch(ctx context.Context, send func(stopwatch.Snapshot) error) error {
	sub := s.hub.Subscribe()
	defer sub.Close()

	if err := send(s.engine.Snapshot()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot := <-sub.C():
			if err := send(snapshot); err != nil {
				return err
			}
		}
	}
}

// newTestServer serves a handler backed by svc until the test ends.
func newTestServer(t *testing.T, svc Service) *httptest.Server {
	t.Helper()

	return newTestServerWith(t, svc)
}

// newTestServerWith is newTestServer with extra handler options.
func newTestServerWith(t *testing.T, svc Service, opts ...Option) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	server := httptest.NewServer(NewHandler(ctx, svc, append([]Option{WithWriteTimeout(time.Second)}, opts...)...))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return server
}

// TestHandler_ServesPage checks the embedded page and its assets are served.
func TestHandler_ServesPage(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, newEngineService(time.Millisecond))

	for path, want := range map[string]string{
		"/":              `id="stopwatch-output"`,
		"/stopwatch.js":  "new WebSocket",
		"/stopwatch.css": "#stopwatch-output.running",
	} {
		response, err := http.Get(server.URL + path) //nolint:noctx // Test code.
		require.NoError(t, err)

		body, err := io.ReadAll(response.Body)
		require.NoError(t, err)
		require.NoError(t, response.Body.Close())

		require.Equal(t, http.StatusOK, response.StatusCode, path)
		require.Contains(t, string(body), want, path)
	}
}

// TestHandler_JSONEndpoints drives the stopwatch through the HTTP API.
func TestHandler_JSONEndpoints(t *testing.T) {
	t.Parallel()

	svc := newEngineService(100 * time.Millisecond)
	server := newTestServer(t, svc)

	var frame snapshotFrame

	status := doJSON(t, http.MethodGet, server.URL+"/api/snapshot", &frame)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, stopwatch.ZeroDisplay, frame.Display)
	require.Empty(t, frame.State)
	require.NotNil(t, frame.Laps)

	status = doJSON(t, http.MethodPost, server.URL+"/api/commands/start_stop", &frame)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "running", frame.State)

	status = doJSON(t, http.MethodPost, server.URL+"/api/commands/record", &frame)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, frame.Lap)
	require.Equal(t, []string{frame.Lap}, frame.Laps)

	var failure errorFrame

	status = doJSON(t, http.MethodPost, server.URL+"/api/commands/pause", &failure)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, failure.Error, "unknown command")

	require.Equal(t, int32(2), svc.actors.Load())
}

// TestHandler_WebSocket exercises key and command frames over a live WebSocket.
func TestHandler_WebSocket(t *testing.T) {
	t.Parallel()

	svc := newEngineService(10 * time.Millisecond)
	server := newTestServer(t, svc)

	conn, response, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	require.NoError(t, err)

	defer conn.Close()
	defer response.Body.Close()

	// Current state first.
	frame := readFrame(t, conn)
	require.Equal(t, stopwatch.ZeroDisplay, frame.Display)
	require.Empty(t, frame.State)

	// Unbound keys and malformed frames are ignored.
	require.NoError(t, conn.WriteJSON(commandFrame{Key: "x"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))

	require.NoError(t, conn.WriteJSON(commandFrame{Key: "s"}))

	frame = readFrame(t, conn)
	require.Equal(t, "running", frame.State)

	require.NoError(t, conn.WriteJSON(commandFrame{Command: "record"}))

	frame = readFrame(t, conn)
	require.NotEmpty(t, frame.Lap)
	require.Len(t, frame.Laps, 1)

	require.NoError(t, conn.WriteJSON(commandFrame{Key: "r"}))

	frame = readFrame(t, conn)
	require.Equal(t, stopwatch.ZeroDisplay, frame.Display)
	require.Empty(t, frame.Laps)
	require.Empty(t, frame.State)
}

// TestHandler_CheckOrigin rejects foreign pages unless their origin is allowed.
func TestHandler_CheckOrigin(t *testing.T) {
	t.Parallel()

	var (
		svc     = newEngineService(time.Millisecond)
		foreign = http.Header{"Origin": []string{"http://elsewhere.example"}}
		other   = http.Header{"Origin": []string{"http://intruder.example"}}
	)

	strict := newTestServer(t, svc)

	_, response, err := websocket.DefaultDialer.Dial(wsURL(strict), foreign)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusForbidden, response.StatusCode)
	require.NoError(t, response.Body.Close())

	relaxed := newTestServerWith(t, svc, WithAllowedOrigins("HTTP://Elsewhere.example/"))

	conn, response, err := websocket.DefaultDialer.Dial(wsURL(relaxed), foreign)
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	require.Equal(t, stopwatch.ZeroDisplay, readFrame(t, conn).Display)
	require.NoError(t, conn.Close())

	_, response, err = websocket.DefaultDialer.Dial(wsURL(relaxed), other)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusForbidden, response.StatusCode)
	require.NoError(t, response.Body.Close())

	// Same-origin pages stay allowed next to the list.
	same := http.Header{"Origin": []string{relaxed.URL}}

	conn, response, err = websocket.DefaultDialer.Dial(wsURL(relaxed), same)
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	require.NoError(t, conn.Close())

	open := newTestServerWith(t, svc, WithAllowedOrigins("*"))

	conn, response, err = websocket.DefaultDialer.Dial(wsURL(open), other)
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	require.NoError(t, conn.Close())
}

// TestCommandFrame_Resolve checks key and command resolution.
func TestCommandFrame_Resolve(t *testing.T) {
	t.Parallel()

	cmd, ok, err := commandFrame{Key: "t"}.resolve()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stopwatch.CommandRecord, cmd)

	_, ok, err = commandFrame{Key: "q"}.resolve()
	require.NoError(t, err)
	require.False(t, ok)

	cmd, ok, err = commandFrame{Command: "reset"}.resolve()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stopwatch.CommandReset, cmd)

	_, _, err = commandFrame{Command: "explode"}.resolve()
	require.ErrorIs(t, err, stopwatch.ErrUnknownCommand)
}

// wsURL returns the WebSocket endpoint of server.
func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

// readFrame reads one snapshot frame with a deadline.
func readFrame(t *testing.T, conn *websocket.Conn) snapshotFrame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frame snapshotFrame
	require.NoError(t, conn.ReadJSON(&frame))

	return frame
}

// doJSON performs a request and decodes the JSON body into out.
func doJSON(t *testing.T, method, url string, out any) int {
	t.Helper()

	request, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	require.NoError(t, err)

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)

	defer response.Body.Close()

	require.NoError(t, json.NewDecoder(response.Body).Decode(out))

	return response.StatusCode
}
