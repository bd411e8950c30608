//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
)

// DetectActor gathers host and user information identifying the caller.
func DetectActor(origin string) (*stopwatch.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &stopwatch.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
		Origin:   origin,
	}, nil
}
