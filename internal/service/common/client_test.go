//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/stopwatch/internal/api/grpc/stopwatch"
	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	pb "github.com/oshokin/stopwatch/internal/pb/v1"
)

var errStop = errors.New("stop")

// fakeServiceClient records calls instead of reaching a server.
type fakeServiceClient struct {
	// calls holds the invoked method names.
	calls []string
	// metadata is the outgoing metadata of the last call.
	metadata metadata.MD
	// deadline reports whether the last call had a deadline.
	deadline bool
	// stream is replayed by Watch.
	stream []stopwatch.Snapshot
}

func (f *fakeServiceClient) record(ctx context.Context, name string) (*structpb.Struct, error) {
	f.calls = append(f.calls, name)
	f.metadata, _ = metadata.FromOutgoingContext(ctx)
	_, f.deadline = ctx.Deadline()

	return api.SnapshotToProto(stopwatch.Snapshot{Display: name}), nil
}

func (f *fakeServiceClient) StartStop(ctx context.Context, _ *emptypb.Empty, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return f.record(ctx, "StartStop")
}

func (f *fakeServiceClient) Start(ctx context.Context, _ *emptypb.Empty, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return f.record(ctx, "Start")
}

func (f *fakeServiceClient) Stop(ctx context.Context, _ *emptypb.Empty, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return f.record(ctx, "Stop")
}

func (f *fakeServiceClient) Record(ctx context.Context, _ *emptypb.Empty, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return f.record(ctx, "Record")
}

func (f *fakeServiceClient) Reset(ctx context.Context, _ *emptypb.Empty, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return f.record(ctx, "Reset")
}

func (f *fakeServiceClient) GetSnapshot(
	ctx context.Context,
	_ *emptypb.Empty,
	_ ...grpc.CallOption,
) (*structpb.Struct, error) {
	return f.record(ctx, "GetSnapshot")
}

//nolint:ireturn // Matches the client interface.
func (f *fakeServiceClient) Watch(
	ctx context.Context,
	_ *emptypb.Empty,
	_ ...grpc.CallOption,
) (pb.StopwatchService_WatchClient, error) {
	f.calls = append(f.calls, "Watch")
	f.metadata, _ = metadata.FromOutgoingContext(ctx)
	_, f.deadline = ctx.Deadline()

	return &fakeWatchClient{snapshots: f.stream}, nil
}

// fakeWatchClient replays snapshots and then reports io.EOF.
type fakeWatchClient struct {
	grpc.ClientStream

	snapshots []stopwatch.Snapshot
}

func (w *fakeWatchClient) Recv() (*structpb.Struct, error) {
	if len(w.snapshots) == 0 {
		return nil, io.EOF
	}

	next := w.snapshots[0]
	w.snapshots = w.snapshots[1:]

	return api.SnapshotToProto(next), nil
}

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_ApplyRoutesCommands checks each command reaches its RPC with the actor attached.
func TestClient_ApplyRoutesCommands(t *testing.T) {
	t.Parallel()

	fake := new(fakeServiceClient)
	client := NewClient(fake, WithActor(&stopwatch.Actor{Hostname: "box", Username: "ops"}))

	for cmd, method := range map[stopwatch.Command]string{
		stopwatch.CommandStartStop: "StartStop",
		stopwatch.CommandStart:     "Start",
		stopwatch.CommandStop:      "Stop",
		stopwatch.CommandRecord:    "Record",
		stopwatch.CommandReset:     "Reset",
	} {
		snapshot, err := client.Apply(context.Background(), cmd)
		require.NoError(t, err)
		require.Equal(t, method, snapshot.Display)
		require.Equal(t, []string{"box"}, fake.metadata.Get(pb.MetadataHostname))
		require.Equal(t, []string{"ops"}, fake.metadata.Get(pb.MetadataUsername))
		require.True(t, fake.deadline)
	}

	_, err := client.Apply(context.Background(), stopwatch.Command(0))
	require.ErrorIs(t, err, stopwatch.ErrUnknownCommand)
	require.Len(t, fake.calls, 5)
}

// TestClient_GetSnapshotWithoutActor checks no metadata is sent for anonymous clients.
func TestClient_GetSnapshotWithoutActor(t *testing.T) {
	t.Parallel()

	fake := new(fakeServiceClient)

	snapshot, err := NewClient(fake).GetSnapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, "GetSnapshot", snapshot.Display)
	require.Empty(t, fake.metadata.Get(pb.MetadataHostname))
}

// TestClient_Watch replays the stream until EOF and stops early on callback errors.
func TestClient_Watch(t *testing.T) {
	t.Parallel()

	fake := &fakeServiceClient{
		stream: []stopwatch.Snapshot{
			{Display: "00:00"},
			{Display: "00:05", State: stopwatch.Running},
		},
	}
	client := NewClient(fake, WithCallTimeout(time.Millisecond))

	var displays []string

	err := client.Watch(context.Background(), func(snapshot stopwatch.Snapshot) error {
		displays = append(displays, snapshot.Display)

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"00:00", "00:05"}, displays)
	require.False(t, fake.deadline)

	err = client.Watch(context.Background(), func(stopwatch.Snapshot) error {
		return errStop
	})
	require.ErrorIs(t, err, errStop)
}
