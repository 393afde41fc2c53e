package base

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// WriterInfo defines the parameters given by host to initialize a writer for one log stream
type WriterInfo struct {
	Path   string            // log path / stream name, e.g. "conn"
	Config map[string]string // per-stream writer configuration, e.g. "hostname" and "port"
}

// NewWriterInfoFromBytes copies host-owned buffers into a new WriterInfo
//
// The result holds no reference to the given buffers
func NewWriterInfoFromBytes(path []byte, config map[string][]byte) WriterInfo {
	info := WriterInfo{
		Path:   string(path),
		Config: make(map[string]string, len(config)),
	}
	for key, value := range config {
		info.Config[key] = string(value)
	}
	return info
}

// Verify checks the path and config values are usable as text
func (info WriterInfo) Verify() error {
	if len(info.Path) == 0 {
		return fmt.Errorf("path is empty")
	}
	if !utf8.ValidString(info.Path) || strings.IndexByte(info.Path, 0) != -1 {
		return fmt.Errorf("path %q is not valid text", info.Path)
	}
	for key, value := range info.Config {
		if !utf8.ValidString(key) || !utf8.ValidString(value) {
			return &ConfigError{Key: key, Value: value, Err: fmt.Errorf("not valid UTF-8")}
		}
	}
	return nil
}

// GetConfigValue returns the config value or empty string if missing
func (info WriterInfo) GetConfigValue(name string) string {
	return info.Config[name]
}

// WriterHost is the host side of a writer, which receives errors and rotation results
type WriterHost interface {
	// ReportError passes a non-fatal or fatal error to the host's error channel
	ReportError(err error)

	// FinishedRotation notifies the host that the rotation requested by LogWriter.Rotate is completed
	FinishedRotation(rotation RotationInfo) bool
}

// RotationInfo defines the parameters of one rotation request
type RotationInfo struct {
	RotatedPath string
	OpenTime    time.Time
	CloseTime   time.Time
	Terminating bool
}

// LogWriter defines the lifecycle hooks called by host for one log stream
//
// Calls to one LogWriter are serialized by host. Different LogWriter instances may run concurrently.
type LogWriter interface {
	// Init opens the writer. Returns false if the stream cannot be started.
	Init(info WriterInfo, schema LogSchema) bool

	// Write writes one record. Returns false only if the writer is not usable.
	Write(schema LogSchema, values []LogValue) bool

	// SetBuffering turns buffering on or off if supported
	SetBuffering(enabled bool) bool

	// Flush flushes buffered records if any
	Flush(networkTime time.Time) bool

	// Rotate rotates the output if applicable and reports completion to host
	Rotate(rotation RotationInfo) bool

	// Finish closes the writer
	Finish(networkTime time.Time) bool

	// Heartbeat is called periodically by host
	Heartbeat(networkTime time.Time, currentTime time.Time) bool
}
