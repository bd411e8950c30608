//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/stopwatch/internal/api/grpc/stopwatch"
	"github.com/oshokin/stopwatch/internal/config"
	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	pb "github.com/oshokin/stopwatch/internal/pb/v1"
)

// Client wraps the gRPC StopwatchService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the stopwatch server.
	conn *grpc.ClientConn
	// api is the StopwatchService client interface.
	api pb.StopwatchServiceClient
	// actor identifies the caller in request metadata, may be nil.
	actor *stopwatch.Actor

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches the caller identity to every call.
func WithActor(actor *stopwatch.Actor) Option {
	return func(c *Client) {
		c.actor = actor.Clone()
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a gRPC client for the stopwatch server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial stopwatch server: %w", err)
	}

	client := NewClient(pb.NewStopwatchServiceClient(conn), opts...)
	client.conn = conn

	return client, nil
}

// NewClient wraps an existing StopwatchService client.
func NewClient(serviceClient pb.StopwatchServiceClient, opts ...Option) *Client {
	client := &Client{
		api:         serviceClient,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Apply sends cmd to the server and returns the resulting snapshot.
func (c *Client) Apply(ctx context.Context, cmd stopwatch.Command) (stopwatch.Snapshot, error) {
	var call func(context.Context, *emptypb.Empty, ...grpc.CallOption) (*structpb.Struct, error)

	switch cmd {
	case stopwatch.CommandStartStop:
		call = c.api.StartStop
	case stopwatch.CommandStart:
		call = c.api.Start
	case stopwatch.CommandStop:
		call = c.api.Stop
	case stopwatch.CommandRecord:
		call = c.api.Record
	case stopwatch.CommandReset:
		call = c.api.Reset
	default:
		return stopwatch.Snapshot{}, stopwatch.ErrUnknownCommand
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := call(callCtx, new(emptypb.Empty))
	if err != nil {
		return stopwatch.Snapshot{}, fmt.Errorf("%s: %w", cmd, err)
	}

	return api.SnapshotFromProto(response), nil
}

// GetSnapshot retrieves the current state of the stopwatch.
func (c *Client) GetSnapshot(ctx context.Context) (stopwatch.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetSnapshot(callCtx, new(emptypb.Empty))
	if err != nil {
		return stopwatch.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	return api.SnapshotFromProto(response), nil
}

// Watch streams snapshots into fn until ctx is canceled, the stream ends or
// fn returns an error. The call timeout does not apply to the stream.
func (c *Client) Watch(ctx context.Context, fn func(stopwatch.Snapshot) error) error {
	stream, err := c.api.Watch(c.outgoing(ctx), new(emptypb.Empty))
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		message, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}

		if err := fn(api.SnapshotFromProto(message)); err != nil {
			return err
		}
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = c.outgoing(ctx)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// outgoing attaches the actor metadata to ctx.
func (c *Client) outgoing(ctx context.Context) context.Context {
	if c.actor == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(
		ctx,
		pb.MetadataHostname, c.actor.Hostname,
		pb.MetadataUsername, c.actor.Username,
	)
}
