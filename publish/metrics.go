package publish

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
)

// sessionMetrics defines metrics shared by all writers of the same factory
type sessionMetrics struct {
	openedSessionsTotal prometheus.Counter
	openErrorsTotal     prometheus.Counter
	activeSessions      prometheus.Gauge
}

// streamMetrics defines metrics of one stream, labelled by its path
type streamMetrics struct {
	publishedRecordsTotal    prometheus.Counter
	sentBytesTotal           prometheus.Counter
	topicSendErrorsTotal     prometheus.Counter
	payloadSendErrorsTotal   prometheus.Counter
	serializationErrorsTotal prometheus.Counter
}

func newSessionMetrics(metricFactory *base.MetricFactory) *sessionMetrics {
	writerFactory := metricFactory.NewSubFactory("writer_", nil, nil)
	return &sessionMetrics{
		openedSessionsTotal: writerFactory.AddOrGetCounter("opened_sessions_total", "Numbers of opened transport sessions", nil, nil),
		openErrorsTotal:     writerFactory.AddOrGetCounter("open_errors_total", "Numbers of streams failed to start", nil, nil),
		activeSessions:      writerFactory.AddOrGetGauge("active_sessions", "Numbers of currently open transport sessions", nil, nil),
	}
}

func newStreamMetrics(metricFactory *base.MetricFactory, path string) streamMetrics {
	writerFactory := metricFactory.NewSubFactory("writer_", []string{defs.LabelPath}, []string{path})
	sendErrors := writerFactory.AddOrGetCounterVec("send_errors_total", "Numbers of failed frames", []string{"frame"}, nil)
	return streamMetrics{
		publishedRecordsTotal:    writerFactory.AddOrGetCounter("published_records_total", "Numbers of records passed to transport", nil, nil),
		sentBytesTotal:           writerFactory.AddOrGetCounter("sent_bytes_total", "Total length in bytes of sent topics and payloads", nil, nil),
		topicSendErrorsTotal:     sendErrors.WithLabelValues("topic"),
		payloadSendErrorsTotal:   sendErrors.WithLabelValues("payload"),
		serializationErrorsTotal: writerFactory.AddOrGetCounter("serialization_errors_total", "Numbers of dropped malformed records", nil, nil),
	}
}

func (metrics *streamMetrics) OnSendError(serr *base.SendError) {
	if serr.TopicErr != nil {
		metrics.topicSendErrorsTotal.Inc()
	}
	if serr.PayloadErr != nil {
		metrics.payloadSendErrorsTotal.Inc()
	}
}

func (metrics *streamMetrics) OnPublished(topic []byte, payload []byte) {
	metrics.publishedRecordsTotal.Inc()
	metrics.sentBytesTotal.Add(float64(len(topic) + len(payload)))
}
