package stopwatch

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/stopwatch/internal/domain/stopwatch"
	pb "github.com/oshokin/stopwatch/internal/pb/v1"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Apply(ctx context.Context, actor *domain.Actor, cmd domain.Command) (domain.Snapshot, error)
	Snapshot(ctx context.Context) domain.Snapshot
	Watch(ctx context.Context, send func(domain.Snapshot) error) error
}

// Server implements the StopwatchService gRPC API.
type Server struct {
	pb.UnimplementedStopwatchServiceServer

	// service provides the business logic for stopwatch operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// StartStop starts a stopped stopwatch and stops a running one.
func (s *Server) StartStop(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.apply(ctx, domain.CommandStartStop)
}

// Start starts or resumes the stopwatch.
func (s *Server) Start(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.apply(ctx, domain.CommandStart)
}

// Stop pauses the stopwatch.
func (s *Server) Stop(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.apply(ctx, domain.CommandStop)
}

// Record records a lap while the stopwatch runs.
func (s *Server) Record(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.apply(ctx, domain.CommandRecord)
}

// Reset returns the stopwatch to zero.
func (s *Server) Reset(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.apply(ctx, domain.CommandReset)
}

// GetSnapshot returns the current snapshot without changing it.
func (s *Server) GetSnapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return SnapshotToProto(s.service.Snapshot(ctx)), nil
}

// Watch streams snapshots until the client goes away or the server stops.
func (s *Server) Watch(_ *emptypb.Empty, stream pb.StopwatchService_WatchServer) error {
	err := s.service.Watch(stream.Context(), func(snapshot domain.Snapshot) error {
		return stream.Send(SnapshotToProto(snapshot))
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}

func (s *Server) apply(ctx context.Context, cmd domain.Command) (*structpb.Struct, error) {
	snapshot, err := s.service.Apply(ctx, actorFromContext(ctx), cmd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownCommand):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, domain.ErrClosed):
			return nil, status.Error(codes.Unavailable, err.Error())
		}

		return nil, status.Error(codes.Internal, "unable to apply command")
	}

	return SnapshotToProto(snapshot), nil
}

// Origin is the actor origin of commands received over gRPC.
const Origin = "grpc"

// actorFromContext reads the caller identity from incoming metadata.
// Callers that do not identify themselves get an actor with only the origin set.
func actorFromContext(ctx context.Context) *domain.Actor {
	actor := &domain.Actor{
		Origin: Origin,
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return actor
	}

	if hostnames := md.Get(pb.MetadataHostname); len(hostnames) > 0 {
		actor.Hostname = hostnames[0]
	}

	if usernames := md.Get(pb.MetadataUsername); len(usernames) > 0 {
		actor.Username = usernames[0]
	}

	return actor
}
