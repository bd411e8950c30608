package stopwatch

import "fmt"

// Actor identifies who sent a command to a shared stopwatch.
type Actor struct {
	// Hostname is the machine name the command came from.
	Hostname string
	// Username is the system user who sent the command.
	Username string
	// Origin names the adapter the command arrived through: "grpc", "web" or "tui".
	Origin string
}

// String renders the actor as username@hostname.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return fmt.Sprintf("%s@%s", a.Username, a.Hostname)
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}
