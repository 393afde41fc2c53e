package base

import (
	"fmt"
)

// ConfigError reports an invalid per-stream or default configuration value
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config '%s'='%s': %s", e.Key, e.Value, e.Err.Error())
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransportOpenError reports a failure to create, configure or connect a transport session. It's fatal to the stream.
type TransportOpenError struct {
	Address string
	Stage   string // "create", "setsockopt" or "connect"
	Err     error
}

func (e *TransportOpenError) Error() string {
	return fmt.Sprintf("failed to %s socket for %s: %s", e.Stage, e.Address, e.Err.Error())
}

func (e *TransportOpenError) Unwrap() error {
	return e.Err
}

// TransportSendError reports a failure to send one frame. It's not fatal and the stream continues.
type TransportSendError struct {
	Frame string // "topic" or "payload"
	Err   error
}

func (e *TransportSendError) Error() string {
	return fmt.Sprintf("failed to send %s frame: %s", e.Frame, e.Err.Error())
}

func (e *TransportSendError) Unwrap() error {
	return e.Err
}

// SendError collects independent failures of the frames in one message
type SendError struct {
	TopicErr   *TransportSendError // nil if the topic frame was sent
	PayloadErr *TransportSendError // nil if the payload frame was sent
}

func (e *SendError) Error() string {
	switch {
	case e.TopicErr != nil && e.PayloadErr != nil:
		return e.TopicErr.Error() + "; " + e.PayloadErr.Error()
	case e.TopicErr != nil:
		return e.TopicErr.Error()
	case e.PayloadErr != nil:
		return e.PayloadErr.Error()
	default:
		return "no error"
	}
}

// Unwrap returns the frame errors for errors.Is and errors.As
func (e *SendError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.TopicErr != nil {
		errs = append(errs, e.TopicErr)
	}
	if e.PayloadErr != nil {
		errs = append(errs, e.PayloadErr)
	}
	return errs
}

// FrameErrors returns the non-nil frame errors in order
func (e *SendError) FrameErrors() []*TransportSendError {
	errs := make([]*TransportSendError, 0, 2)
	if e.TopicErr != nil {
		errs = append(errs, e.TopicErr)
	}
	if e.PayloadErr != nil {
		errs = append(errs, e.PayloadErr)
	}
	return errs
}

// NewSendError creates SendError from frame results, or returns nil if both succeeded
func NewSendError(topicErr error, payloadErr error) error {
	if topicErr == nil && payloadErr == nil {
		return nil
	}
	serr := &SendError{}
	if topicErr != nil {
		serr.TopicErr = &TransportSendError{Frame: "topic", Err: topicErr}
	}
	if payloadErr != nil {
		serr.PayloadErr = &TransportSendError{Frame: "payload", Err: payloadErr}
	}
	return serr
}

// SerializationError reports a malformed record. The record is dropped and the stream continues.
type SerializationError struct {
	Field  string // empty if not specific to a field
	Reason string
}

func (e *SerializationError) Error() string {
	if e.Field == "" {
		return "malformed record: " + e.Reason
	}
	return fmt.Sprintf("malformed record at field '%s': %s", e.Field, e.Reason)
}
