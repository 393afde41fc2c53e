package defs

import (
	"time"
)

var (
	// DefaultHostname is the default hostname of the subscriber to connect, if not overridden by config
	DefaultHostname = "localhost"

	// DefaultPort is the default port of the subscriber to connect, if not overridden by config
	DefaultPort uint16 = 5556

	// DefaultLinger is how long a closing socket may wait to deliver queued messages
	//
	// Zero means unsent messages are discarded immediately, so that shutdown never hangs on an unreachable subscriber
	DefaultLinger time.Duration = 0

	// DefaultHeartbeatInterval defines how often the host calls Heartbeat on each writer
	DefaultHeartbeatInterval = 1 * time.Second

	// InputLogMaxLineBytes defines the maximum length of one line in input log files
	//
	// Longer lines are dropped as malformed
	InputLogMaxLineBytes = 1 * 1024 * 1024

	// WriterStopTimeout defines how long to wait for all stream writers to finish after a stop request
	WriterStopTimeout = 10 * time.Second
)

// For testing and experiments
const (
	TestReadTimeout = 5 * time.Second
)

// EnableTestMode turns on test mode with short heartbeat interval and stop timeout
func EnableTestMode() {
	DefaultHeartbeatInterval = 100 * time.Millisecond
	WriterStopTimeout = 2 * time.Second
}
