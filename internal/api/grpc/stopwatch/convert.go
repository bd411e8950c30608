package stopwatch

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/stopwatch/internal/domain/stopwatch"
	pb "github.com/oshokin/stopwatch/internal/pb/v1"
)

// SnapshotToProto converts a domain snapshot to its wire form.
func SnapshotToProto(snapshot domain.Snapshot) *structpb.Struct {
	laps := make([]*structpb.Value, 0, len(snapshot.Laps))
	for _, lap := range snapshot.Laps {
		laps = append(laps, structpb.NewStringValue(lap))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			pb.FieldElapsedMs: structpb.NewNumberValue(float64(snapshot.Elapsed.Milliseconds())),
			pb.FieldDisplay:   structpb.NewStringValue(snapshot.Display),
			pb.FieldState:     structpb.NewStringValue(snapshot.Tag()),
			pb.FieldLaps:      structpb.NewListValue(&structpb.ListValue{Values: laps}),
			pb.FieldLap:       structpb.NewStringValue(snapshot.Lap),
		},
	}
}

// SnapshotFromProto converts the wire form back into a domain snapshot.
// Missing or mistyped fields are left at their zero values.
func SnapshotFromProto(message *structpb.Struct) domain.Snapshot {
	fields := message.GetFields()

	snapshot := domain.Snapshot{
		Elapsed: time.Duration(fields[pb.FieldElapsedMs].GetNumberValue()) * time.Millisecond,
		Display: fields[pb.FieldDisplay].GetStringValue(),
		State:   domain.ParseTag(fields[pb.FieldState].GetStringValue()),
		Lap:     fields[pb.FieldLap].GetStringValue(),
	}

	for _, value := range fields[pb.FieldLaps].GetListValue().GetValues() {
		snapshot.Laps = append(snapshot.Laps, value.GetStringValue())
	}

	return snapshot
}
