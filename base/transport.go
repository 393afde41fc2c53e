package base

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Endpoint defines the resolved address and socket options of one transport session
type Endpoint struct {
	Hostname          string
	Port              uint16
	Linger            time.Duration // max time to wait for unsent messages on close; 0 to discard them immediately
	SendBuffer        int           // kernel send buffer size in bytes, 0 for OS default
	SendHighWaterMark int           // max queued outgoing messages, 0 for transport default
}

// Address returns the connect target, e.g. "tcp://localhost:5556"
func (ep Endpoint) Address() string {
	return "tcp://" + net.JoinHostPort(ep.Hostname, strconv.Itoa(int(ep.Port)))
}

func (ep Endpoint) String() string {
	return fmt.Sprintf("%s (linger=%s)", ep.Address(), ep.Linger)
}

// TransportContext is the process-wide transport runtime shared by all sessions
//
// It's created once at startup and must outlive all sessions opened from it. OpenSession may be called
// concurrently from different writers.
type TransportContext interface {
	// OpenSession creates a publish-capable session and starts connecting to the endpoint
	//
	// Success doesn't imply a subscriber is reachable. Returns TransportOpenError on failure.
	OpenSession(endpoint Endpoint) (TransportSession, error)
}

// TransportSession owns one outbound publish connection
//
// A session is used by a single writer and not safe for concurrent use
type TransportSession interface {
	// Send sends topic and payload as two frames of one message
	//
	// Both frames are always attempted. Returns *SendError describing the failed frames, or nil.
	Send(topic []byte, payload []byte) error

	// Close releases the session. It may be called more than once and never blocks beyond linger.
	Close() error
}
