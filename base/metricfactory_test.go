package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricFactory(t *testing.T) {
	mfactory := NewMetricFactory("testmetricfactory_", []string{"test"}, []string{"TestMetricFactory"})
	mfactory.AddOrGetCounter("opened_total", "Help opened_total", []string{"name"}, []string{"foo"}).Add(3)
	mfactory.AddOrGetCounter("opened_total", "Help opened_total", []string{"name"}, []string{"foo"}).Add(4)
	mfactory.AddOrGetCounterVec("errors_total", "Help errors_total", []string{"frame"}, nil).WithLabelValues("topic").Add(5)
	mfactory.AddOrGetCounterVec("errors_total", "Help errors_total", []string{"frame"}, nil).WithLabelValues("payload")

	connFactory := mfactory.NewSubFactory("writer_", []string{"path"}, []string{"conn"})
	connFactory.AddOrGetGauge("sessions", "Help sessions", nil, nil).Add(1)
	connFactory.AddOrGetGaugeVec("queued", "Help queued", []string{"class"}, nil).WithLabelValues("X").Add(14)
	connFactory.AddOrGetGaugeVec("queued", "Help queued", []string{"class"}, nil).WithLabelValues("X").Add(1)
	dnsFactory := mfactory.NewSubFactory("writer_", []string{"path"}, []string{"dns"})
	dnsFactory.AddOrGetGauge("sessions", "Help sessions", nil, nil).Add(2)
	assert.Equal(t, "testmetricfactory_writer_", dnsFactory.Prefix())

	metrics, merr := mfactory.DumpMetrics(true)
	assert.Nil(t, merr)
	assert.Equal(t, `testmetricfactory_errors_total{frame="payload",test="TestMetricFactory"} 0
testmetricfactory_errors_total{frame="topic",test="TestMetricFactory"} 5
testmetricfactory_opened_total{name="foo",test="TestMetricFactory"} 7
testmetricfactory_writer_queued{class="X",path="conn",test="TestMetricFactory"} 15
testmetricfactory_writer_sessions{path="conn",test="TestMetricFactory"} 1
testmetricfactory_writer_sessions{path="dns",test="TestMetricFactory"} 2
`, metrics)

	subMetrics, serr := connFactory.DumpMetrics(false)
	assert.Nil(t, serr)
	assert.Contains(t, subMetrics, `testmetricfactory_writer_sessions{path="dns",test="TestMetricFactory"} 2`,
		"sub-factory dumps all metrics under its prefix")
	assert.NotContains(t, subMetrics, "errors_total")
}
