package zeromq

import (
	"fmt"

	"github.com/pebbe/zmq4"
	"github.com/relex/zmqlogwriter/base"
)

// session is one PUB socket owned by a single stream writer
type session struct {
	owner   *Context
	sock    *zmq4.Socket
	address string
	closed  bool
}

func newSession(owner *Context, sock *zmq4.Socket, address string) *session {
	return &session{
		owner:   owner,
		sock:    sock,
		address: address,
		closed:  false,
	}
}

// Send sends topic with SNDMORE and then payload as the final frame
//
// The payload is attempted even if the topic failed. PUB sockets drop messages instead of blocking when there is no
// subscriber or the high-water mark is reached, so a nil result doesn't mean the message was delivered.
func (s *session) Send(topic []byte, payload []byte) error {
	if s.closed {
		return base.NewSendError(errSessionClosed, errSessionClosed)
	}
	_, topicErr := s.sock.SendBytes(topic, zmq4.SNDMORE)
	_, payloadErr := s.sock.SendBytes(payload, 0)
	return base.NewSendError(topicErr, payloadErr)
}

// Close closes the socket. Unsent messages are kept up to the linger period set at opening.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.owner.onSessionClosed()
	if err := s.sock.Close(); err != nil {
		return fmt.Errorf("failed to close socket for %s: %w", s.address, err)
	}
	return nil
}

var errSessionClosed = fmt.Errorf("session closed")
