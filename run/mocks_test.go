package run

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/relex/zmqlogwriter/base"
	"github.com/stretchr/testify/require"
)

type mockTransport struct {
	mutex    sync.Mutex
	sessions []*mockSession
}

func (transport *mockTransport) OpenSession(endpoint base.Endpoint) (base.TransportSession, error) {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	sess := &mockSession{endpoint: endpoint}
	transport.sessions = append(transport.sessions, sess)
	return sess, nil
}

// SessionByAddress returns the first session opened to the address
func (transport *mockTransport) SessionByAddress(address string) *mockSession {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	for _, sess := range transport.sessions {
		if sess.endpoint.Address() == address {
			return sess
		}
	}
	return nil
}

func (transport *mockTransport) NumSessions() int {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	return len(transport.sessions)
}

type mockSession struct {
	endpoint base.Endpoint
	topics   []string
	payloads []string
	closed   int
}

func (sess *mockSession) Send(topic []byte, payload []byte) error {
	sess.topics = append(sess.topics, string(topic))
	sess.payloads = append(sess.payloads, string(payload))
	return nil
}

func (sess *mockSession) Close() error {
	sess.closed++
	return nil
}

const connLog = "#separator \\x09\n" +
	"#set_separator\t,\n" +
	"#empty_field\t(empty)\n" +
	"#unset_field\t-\n" +
	"#path\tconn\n" +
	"#open\t2023-11-14-22-00-00\n" +
	"#fields\tts\tid\n" +
	"#types\ttime\tstring\n" +
	"1700000000.5\tabc\n" +
	"1700000001.25\tdef\n" +
	"#close\t2023-11-14-23-00-00\n"

const dnsLog = "#fields\tts\tquery\tanswers\n" +
	"#types\ttime\tstring\tvector[addr]\n" +
	"1700000002.000000\texample.com\t93.184.216.34,-\n"

// writeTestFile writes contents to a new file in the test's temp dir and returns the path
func writeTestFile(t *testing.T, name string, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newTestMetricFactory(t *testing.T) *base.MetricFactory {
	return base.NewMetricFactory(strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))+"_", nil, nil)
}
