// Package publish implements the per-stream record publisher and its adapter to the host's writer lifecycle
//
// A Publisher owns one transport session and one serializer for a single stream. All calls to the same Publisher must
// be serialized by the caller; different publishers may run in parallel and share the same transport context.
package publish

import (
	"errors"
	"fmt"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/output"
)

// State is the lifecycle state of a Publisher
type State int

// States of Publisher
const (
	StateUninitialized State = iota
	StateReady
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrNotReady is returned by Publish when the publisher is not opened, or already closed or failed
var ErrNotReady = errors.New("publisher not ready")

// Settings defines the process-wide defaults of all streams
type Settings struct {
	Endpoint base.Endpoint // default hostname, port and socket options
	Format   string        // default record format, see output.ListFormats
}

// Publisher serializes records and sends them as two-frame messages of path and payload
type Publisher struct {
	logger         logger.Logger
	transport      base.TransportContext
	settings       Settings
	metricFactory  *base.MetricFactory
	sessionMetrics *sessionMetrics
	state          State
	path           string
	topic          []byte
	endpoint       base.Endpoint
	serializer     base.LogSerializer
	session        base.TransportSession
	metrics        streamMetrics
}

func newPublisher(parentLogger logger.Logger, transport base.TransportContext, settings Settings,
	metricFactory *base.MetricFactory, sessionMetrics *sessionMetrics) *Publisher {
	return &Publisher{
		logger:         parentLogger,
		transport:      transport,
		settings:       settings,
		metricFactory:  metricFactory,
		sessionMetrics: sessionMetrics,
		state:          StateUninitialized,
	}
}

// State returns the current state
func (p *Publisher) State() State {
	return p.state
}

// Endpoint returns the resolved endpoint, or empty Endpoint if not opened
func (p *Publisher) Endpoint() base.Endpoint {
	return p.endpoint
}

// Open resolves the endpoint, creates the serializer and opens the transport session
//
// Any error puts the publisher into StateFailed, where it stays. There is no retry.
func (p *Publisher) Open(info base.WriterInfo, schema base.LogSchema) error {
	if p.state != StateUninitialized {
		return fmt.Errorf("cannot open publisher in state %s", p.state)
	}
	if err := p.open(info, schema); err != nil {
		p.state = StateFailed
		p.sessionMetrics.openErrorsTotal.Inc()
		p.logger.Errorf("failed to open: %s", err.Error())
		return err
	}
	p.state = StateReady
	p.sessionMetrics.openedSessionsTotal.Inc()
	p.sessionMetrics.activeSessions.Inc()
	p.logger.Infof("opened with schema %s", schema)
	return nil
}

func (p *Publisher) open(info base.WriterInfo, schema base.LogSchema) error {
	if err := info.Verify(); err != nil {
		return fmt.Errorf("invalid writer info: %w", err)
	}
	p.logger = p.logger.WithField(defs.LabelPath, info.Path)

	endpoint, err := ResolveEndpoint(p.settings.Endpoint, info.Config)
	if err != nil {
		return err
	}

	format := info.GetConfigValue(defs.ConfigKeyFormat)
	if format == "" {
		format = p.settings.Format
	}
	if format == "" {
		format = output.DefaultFormat
	}
	newSerializer, err := output.LookupSerializer(format)
	if err != nil {
		return &base.ConfigError{Key: defs.ConfigKeyFormat, Value: format, Err: err}
	}

	p.logger.Infof("connecting to %s in format %s", endpoint, format)
	session, err := p.transport.OpenSession(endpoint)
	if err != nil {
		return err
	}

	p.path = info.Path
	p.topic = []byte(info.Path)
	p.endpoint = endpoint
	p.serializer = newSerializer(p.logger, schema)
	p.session = session
	p.metrics = newStreamMetrics(p.metricFactory, info.Path)
	return nil
}

// Publish serializes the record and sends it with the stream path as topic
//
// A malformed record returns SerializationError and is dropped. A transport failure returns SendError. Neither ends
// the stream, and the next call attempts delivery again. Returns ErrNotReady if the publisher is not in StateReady.
func (p *Publisher) Publish(schema base.LogSchema, values []base.LogValue) error {
	if p.state != StateReady {
		return fmt.Errorf("%w: %s", ErrNotReady, p.state)
	}
	payload, err := p.serializer.Serialize(schema, values)
	if err != nil {
		p.metrics.serializationErrorsTotal.Inc()
		p.logger.Warnf("dropped record: %s", err.Error())
		return err
	}
	if err := p.session.Send(p.topic, payload); err != nil {
		var serr *base.SendError
		if errors.As(err, &serr) {
			p.metrics.OnSendError(serr)
		} else {
			p.metrics.payloadSendErrorsTotal.Inc()
		}
		p.logger.Warnf("failed to send record: %s", err.Error())
		return err
	}
	p.metrics.OnPublished(p.topic, payload)
	return nil
}

// Flush does nothing as records are never buffered in publisher
func (p *Publisher) Flush() bool {
	return true
}

// Heartbeat does nothing
func (p *Publisher) Heartbeat() bool {
	return true
}

// Rotate does nothing and always succeeds, since there is no file to rotate
func (p *Publisher) Rotate() bool {
	p.logger.Debugf("rotation not applicable in state %s", p.state)
	return true
}

// Close closes the session and releases the serializer. It may be called more than once.
//
// Close of an uninitialized publisher moves it to StateClosed. A failed publisher stays failed.
func (p *Publisher) Close() error {
	switch p.state {
	case StateUninitialized:
		p.state = StateClosed
		return nil
	case StateReady:
		p.state = StateClosed
		err := p.session.Close()
		p.session = nil
		p.serializer = nil
		p.sessionMetrics.activeSessions.Dec()
		if err != nil {
			p.logger.Warnf("failed to close session: %s", err.Error())
			return err
		}
		p.logger.Info("closed")
		return nil
	default:
		return nil
	}
}
