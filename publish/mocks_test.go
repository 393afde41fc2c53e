package publish

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	Topic   string
	Payload string
}

type mockTransport struct {
	mutex    sync.Mutex
	OpenErr  error
	Opened   []base.Endpoint
	Sessions []*mockSession
}

func (transport *mockTransport) OpenSession(endpoint base.Endpoint) (base.TransportSession, error) {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	if transport.OpenErr != nil {
		return nil, transport.OpenErr
	}
	transport.Opened = append(transport.Opened, endpoint)
	sess := &mockSession{}
	transport.Sessions = append(transport.Sessions, sess)
	return sess, nil
}

func (transport *mockTransport) LastSession() *mockSession {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	if len(transport.Sessions) == 0 {
		return nil
	}
	return transport.Sessions[len(transport.Sessions)-1]
}

type mockSession struct {
	TopicErr   error
	PayloadErr error
	CloseErr   error
	Attempts   int
	Sent       []sentMessage
	CloseCount int
}

func (sess *mockSession) Send(topic []byte, payload []byte) error {
	sess.Attempts++
	if sess.TopicErr == nil && sess.PayloadErr == nil {
		sess.Sent = append(sess.Sent, sentMessage{Topic: string(topic), Payload: string(payload)})
	}
	return base.NewSendError(sess.TopicErr, sess.PayloadErr)
}

func (sess *mockSession) Close() error {
	sess.CloseCount++
	return sess.CloseErr
}

type mockHost struct {
	Errors    []error
	Rotations []base.RotationInfo
}

func (host *mockHost) ReportError(err error) {
	host.Errors = append(host.Errors, err)
}

func (host *mockHost) FinishedRotation(rotation base.RotationInfo) bool {
	host.Rotations = append(host.Rotations, rotation)
	return true
}

var errMockSend = errors.New("mock send failure")

var testSchema = base.MustNewLogSchema([]base.LogField{
	{Name: "ts", Type: base.TypeTime},
	{Name: "id", Type: base.TypeString},
})

func testValues(id string) []base.LogValue {
	return []base.LogValue{
		base.TimeValue(time.Unix(1700000000, 500000000)),
		base.StringValue(id),
	}
}

// newTestMetricFactory creates a factory with metrics prefix unique to the test
func newTestMetricFactory(t *testing.T) *base.MetricFactory {
	return base.NewMetricFactory(strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))+"_", nil, nil)
}

func newTestWriterFactory(t *testing.T, transport *mockTransport) *WriterFactory {
	factory, err := NewWriterFactory(logger.Root(), transport, Settings{Endpoint: DefaultEndpoint(), Format: "json"}, newTestMetricFactory(t))
	require.NoError(t, err)
	return factory
}
