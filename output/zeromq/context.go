// Package zeromq implements the transport of records as two-frame ZeroMQ PUB messages
//
// One Context is shared by all streams in the process. Each stream opens its own Session, which connects a PUB socket
// to the subscriber's endpoint and sends each record as topic (log path) followed by payload.
package zeromq

import (
	"fmt"
	"sync/atomic"

	"github.com/pebbe/zmq4"
	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/util"
)

// Context wraps a ZeroMQ context, from which sessions are opened
//
// OpenSession is safe for concurrent use. Close must be called last, after all sessions have been closed.
type Context struct {
	logger       logger.Logger
	zctx         *zmq4.Context
	openSessions int64
	close        util.RunOnce
	closeErr     error
}

// NewContext creates the process-wide ZeroMQ context
func NewContext(parentLogger logger.Logger) (*Context, error) {
	zctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZeroMQ context: %w", err)
	}
	major, minor, patch := zmq4.Version()
	c := &Context{
		logger: parentLogger.WithField(defs.LabelComponent, "ZeroMQContext"),
		zctx:   zctx,
	}
	c.close = util.NewRunOnce(c.terminate)
	c.logger.Infof("created context with libzmq %d.%d.%d", major, minor, patch)
	return c, nil
}

// OpenSession creates a PUB socket, applies the socket options and connects it to the endpoint
//
// Connecting is asynchronous and succeeds even if nothing is listening yet. On failure the half-built socket is closed.
func (c *Context) OpenSession(endpoint base.Endpoint) (base.TransportSession, error) {
	address := endpoint.Address()
	sock, err := c.zctx.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, &base.TransportOpenError{Address: address, Stage: "create", Err: err}
	}
	if err := applySocketOptions(sock, endpoint); err != nil {
		closeQuietly(sock)
		return nil, &base.TransportOpenError{Address: address, Stage: "setsockopt", Err: err}
	}
	if err := sock.Connect(address); err != nil {
		closeQuietly(sock)
		return nil, &base.TransportOpenError{Address: address, Stage: "connect", Err: err}
	}
	num := atomic.AddInt64(&c.openSessions, 1)
	c.logger.Debugf("opened session to %s, total=%d", endpoint, num)
	return newSession(c, sock, address), nil
}

// NumOpenSessions returns the number of sessions not closed yet
func (c *Context) NumOpenSessions() int {
	return int(atomic.LoadInt64(&c.openSessions))
}

// Close terminates the context. It may be called more than once.
//
// Termination would block until every socket is closed, so Close returns an error without terminating while any
// session is still open, and may be called again after they are closed.
func (c *Context) Close() error {
	if num := c.NumOpenSessions(); num > 0 {
		c.logger.Errorf("BUG: cannot terminate context with %d open sessions", num)
		return fmt.Errorf("%d sessions still open", num)
	}
	c.close()
	return c.closeErr
}

func (c *Context) terminate() {
	if err := c.zctx.Term(); err != nil {
		c.closeErr = fmt.Errorf("failed to terminate ZeroMQ context: %w", err)
		c.logger.Warn(c.closeErr.Error())
		return
	}
	c.logger.Info("terminated context")
}

func (c *Context) onSessionClosed() {
	atomic.AddInt64(&c.openSessions, -1)
}

func applySocketOptions(sock *zmq4.Socket, endpoint base.Endpoint) error {
	if err := sock.SetLinger(endpoint.Linger); err != nil {
		return fmt.Errorf("linger: %w", err)
	}
	if endpoint.SendBuffer > 0 {
		if err := sock.SetSndbuf(endpoint.SendBuffer); err != nil {
			return fmt.Errorf("sndbuf: %w", err)
		}
	}
	if endpoint.SendHighWaterMark > 0 {
		if err := sock.SetSndhwm(endpoint.SendHighWaterMark); err != nil {
			return fmt.Errorf("sndhwm: %w", err)
		}
	}
	return nil
}

func closeQuietly(sock *zmq4.Socket) {
	if err := sock.Close(); err != nil {
		logger.Warnf("failed to close half-opened socket: %s", err.Error())
	}
}
