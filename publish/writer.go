package publish

import (
	"errors"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/output"
)

// WriterFactory creates writers sharing the same transport context, defaults and metrics
type WriterFactory struct {
	logger         logger.Logger
	transport      base.TransportContext
	settings       Settings
	metricFactory  *base.MetricFactory
	sessionMetrics *sessionMetrics
}

// Writer adapts a Publisher to the host's LogWriter hooks
//
// Errors during Write are passed to host and never stop the stream, so Write returns true even if the record is lost.
type Writer struct {
	host      base.WriterHost
	publisher *Publisher
}

// NewWriterFactory creates a WriterFactory. The default format in settings must be valid.
func NewWriterFactory(parentLogger logger.Logger, transport base.TransportContext, settings Settings,
	metricFactory *base.MetricFactory) (*WriterFactory, error) {
	if _, err := output.LookupSerializer(settings.Format); err != nil {
		return nil, err
	}
	return &WriterFactory{
		logger:         parentLogger.WithField(defs.LabelComponent, "Writer"),
		transport:      transport,
		settings:       settings,
		metricFactory:  metricFactory,
		sessionMetrics: newSessionMetrics(metricFactory),
	}, nil
}

// NewWriter creates an uninitialized writer reporting to the given host
func (factory *WriterFactory) NewWriter(host base.WriterHost) *Writer {
	return &Writer{
		host:      host,
		publisher: newPublisher(factory.logger, factory.transport, factory.settings, factory.metricFactory, factory.sessionMetrics),
	}
}

// Publisher returns the underlying publisher
func (w *Writer) Publisher() *Publisher {
	return w.publisher
}

// Init opens the publisher. Returns false after reporting the error if the stream cannot start.
func (w *Writer) Init(info base.WriterInfo, schema base.LogSchema) bool {
	if err := w.publisher.Open(info, schema); err != nil {
		w.host.ReportError(err)
		return false
	}
	return true
}

// Write publishes one record
//
// Returns false only if the writer is not ready. Serialization and send failures are reported and true is returned.
func (w *Writer) Write(schema base.LogSchema, values []base.LogValue) bool {
	err := w.publisher.Publish(schema, values)
	if err == nil {
		return true
	}
	if errors.Is(err, ErrNotReady) {
		w.host.ReportError(err)
		return false
	}
	var serr *base.SendError
	if errors.As(err, &serr) {
		for _, frameErr := range serr.FrameErrors() {
			w.host.ReportError(frameErr)
		}
		return true
	}
	w.host.ReportError(err)
	return true
}

// SetBuffering is not supported and ignored
func (w *Writer) SetBuffering(enabled bool) bool {
	return true
}

// Flush does nothing
func (w *Writer) Flush(networkTime time.Time) bool {
	return w.publisher.Flush()
}

// Rotate completes the rotation immediately, since there is no file to rotate
func (w *Writer) Rotate(rotation base.RotationInfo) bool {
	w.publisher.Rotate()
	return w.host.FinishedRotation(rotation)
}

// Finish closes the publisher. Errors on closing are reported but don't fail the call.
func (w *Writer) Finish(networkTime time.Time) bool {
	if err := w.publisher.Close(); err != nil {
		w.host.ReportError(err)
	}
	return true
}

// Heartbeat does nothing
func (w *Writer) Heartbeat(networkTime time.Time, currentTime time.Time) bool {
	return w.publisher.Heartbeat()
}
