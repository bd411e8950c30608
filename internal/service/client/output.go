package client

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"

	api "github.com/oshokin/stopwatch/internal/api/grpc/stopwatch"
	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
)

// Output formats.
const (
	// FormatText prints human-readable lines.
	FormatText = "text"
	// FormatJSON prints one JSON object per snapshot.
	FormatJSON = "json"
)

// errUnknownFormat is returned for output formats other than text and json.
var errUnknownFormat = errors.New("unknown output format")

// validateFormat rejects output formats renderSnapshot does not know.
func validateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, "":
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

// renderSnapshot writes snapshot in the requested format.
// With verbose text output the laps are listed below the display line.
func renderSnapshot(w io.Writer, snapshot stopwatch.Snapshot, format string, verbose bool) error {
	switch format {
	case FormatJSON:
		data, err := protojson.Marshal(api.SnapshotToProto(snapshot))
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case FormatText, "":
		var b strings.Builder

		b.WriteString(snapshot.Display)
		b.WriteString(" ")
		b.WriteString(snapshot.State.String())

		if snapshot.Lap != "" {
			fmt.Fprintf(&b, " (lap %d: %s)", len(snapshot.Laps), snapshot.Lap)
		}

		b.WriteString("\n")

		if verbose {
			for i, lap := range snapshot.Laps {
				fmt.Fprintf(&b, "  lap %d  %s\n", i+1, lap)
			}
		}

		_, err := io.WriteString(w, b.String())

		return err
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}
