package zeromq

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pebbe/zmq4"
	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bindSubscriber binds a SUB socket on a random local port and subscribes to everything
func bindSubscriber(t *testing.T) (*zmq4.Socket, uint16) {
	sub, err := zmq4.NewSocket(zmq4.SUB)
	require.NoError(t, err)
	require.NoError(t, sub.SetLinger(0))
	require.NoError(t, sub.SetRcvtimeo(100*time.Millisecond))
	require.NoError(t, sub.SetSubscribe(""))
	require.NoError(t, sub.Bind("tcp://127.0.0.1:*"))
	lastEndpoint, err := sub.GetLastEndpoint()
	require.NoError(t, err)
	port, err := strconv.Atoi(lastEndpoint[strings.LastIndexByte(lastEndpoint, ':')+1:])
	require.NoError(t, err)
	return sub, uint16(port)
}

func TestSessionSendsTwoFrames(t *testing.T) {
	sub, port := bindSubscriber(t)
	defer sub.Close()

	ctx, err := NewContext(logger.Root())
	require.NoError(t, err)
	defer func() { assert.NoError(t, ctx.Close()) }()

	sess, err := ctx.OpenSession(base.Endpoint{Hostname: "127.0.0.1", Port: port, SendHighWaterMark: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, ctx.NumOpenSessions())

	payload := []byte(`{"ts":1700000000.5,"id":"abc"}`)
	var received [][]byte
	// the subscription may take a while to propagate, so messages sent before that are dropped
	deadline := time.Now().Add(defs.TestReadTimeout)
	for received == nil && time.Now().Before(deadline) {
		assert.NoError(t, sess.Send([]byte("conn"), payload))
		if msg, rerr := sub.RecvMessageBytes(0); rerr == nil {
			received = msg
		}
	}
	if assert.Len(t, received, 2) {
		assert.Equal(t, "conn", string(received[0]))
		assert.Equal(t, string(payload), string(received[1]))
	}

	assert.NoError(t, sess.Close())
	assert.NoError(t, sess.Close())
	assert.Equal(t, 0, ctx.NumOpenSessions())

	err = sess.Send([]byte("conn"), payload)
	var serr *base.SendError
	if assert.ErrorAs(t, err, &serr) {
		assert.Len(t, serr.FrameErrors(), 2)
		assert.True(t, errors.Is(err, errSessionClosed))
	}
}

func TestSessionWithoutSubscriber(t *testing.T) {
	ctx, err := NewContext(logger.Root())
	require.NoError(t, err)
	defer ctx.Close()

	// nothing listens on port 1; connecting is asynchronous and sends are dropped silently
	sess, err := ctx.OpenSession(base.Endpoint{Hostname: "127.0.0.1", Port: 1, Linger: 0})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.NoError(t, sess.Send([]byte("conn"), []byte("{}")))
	}

	start := time.Now()
	assert.NoError(t, sess.Close())
	assert.NoError(t, ctx.Close())
	assert.Less(t, time.Since(start), time.Second)
}

func TestCloseWithOpenSession(t *testing.T) {
	ctx, err := NewContext(logger.Root())
	require.NoError(t, err)

	sess, err := ctx.OpenSession(base.Endpoint{Hostname: "127.0.0.1", Port: 1, Linger: 0})
	require.NoError(t, err)

	start := time.Now()
	assert.EqualError(t, ctx.Close(), "1 sessions still open")
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, sess.Close())
	assert.NoError(t, ctx.Close())
	assert.NoError(t, ctx.Close())
}

func TestOpenSessionInvalidEndpoint(t *testing.T) {
	ctx, err := NewContext(logger.Root())
	require.NoError(t, err)
	defer ctx.Close()

	_, err = ctx.OpenSession(base.Endpoint{Hostname: "no such host!", Port: 5556})
	var oerr *base.TransportOpenError
	if assert.ErrorAs(t, err, &oerr) {
		assert.Equal(t, "connect", oerr.Stage)
		assert.Equal(t, "tcp://no such host!:5556", oerr.Address)
	}
	assert.Equal(t, 0, ctx.NumOpenSessions())
}
