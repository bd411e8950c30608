package server

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/stopwatch/internal/logger"
)

// errAlreadyRunning is returned when another server process owns the stopwatch.
var errAlreadyRunning = errors.New("another stopwatch server is already running")

// ensureSingleInstance refuses to start a second server on the same machine,
// as the stopwatch is a single process-wide instance.
func ensureSingleInstance(ctx context.Context) error {
	processList, err := ps.Processes()
	if err != nil {
		logger.WarnKV(ctx, "Unable to list processes, skipping instance check", "error", err)

		return nil
	}

	return checkSingleInstance(os.Getpid(), processList)
}

// checkSingleInstance looks for another process with the executable name of selfPID.
// Names are taken from the process list itself, so platform-specific
// truncation applies to both sides of the comparison.
func checkSingleInstance(selfPID int, processList []ps.Process) error {
	var selfName string

	for _, process := range processList {
		if process.Pid() == selfPID {
			selfName = process.Executable()

			break
		}
	}

	if selfName == "" {
		return nil
	}

	for _, process := range processList {
		if process.Pid() == selfPID || process.Executable() != selfName {
			continue
		}

		return fmt.Errorf("%w: %s (pid %d)", errAlreadyRunning, selfName, process.Pid())
	}

	return nil
}
