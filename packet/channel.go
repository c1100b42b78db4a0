package packet

import (
	"errors"
	"io"
	"net"

	"github.com/signadot/go-packet/config"
)

// DefaultBufferSize is the receive size used when ReceiveFrom is given no
// positive size and no config sets one.
const DefaultBufferSize = config.DefaultMaxRecv

// Channel carries whole messages. Framing, retries and timeouts belong to
// the implementation.
type Channel interface {
	Send(d []byte) (int, error)
	Recv(maxBytes int) ([]byte, error)
}

// ConnChannel sends and receives with single writes and reads on c.
// A read at end of stream returns no bytes and no error.
func ConnChannel(c net.Conn) Channel {
	return connChannel{c}
}

type connChannel struct {
	conn net.Conn
}

func (c connChannel) Send(d []byte) (int, error) {
	return c.conn.Write(d)
}

func (c connChannel) Recv(maxBytes int) ([]byte, error) {
	buf := make([]byte, maxBytes)
	n, err := c.conn.Read(buf)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return buf[:n], err
}

// SendTo writes the packet to ch.
func (p *Packet) SendTo(ch Channel) (int, error) {
	if ch == nil {
		return 0, ErrNoChannel
	}
	d, err := p.Dumps()
	if err != nil {
		return 0, err
	}
	return ch.Send(d)
}

// ReceiveFrom reads one message of at most maxBytes from ch into the
// packet. It reports false with no error for an empty read and for
// messages which are not this packet, so callers may poll.
func (p *Packet) ReceiveFrom(ch Channel, maxBytes int) (bool, error) {
	if ch == nil {
		return false, ErrNoChannel
	}
	if maxBytes <= 0 {
		maxBytes = p.recvSize
	}
	d, err := ch.Recv(maxBytes)
	if err != nil {
		return false, err
	}
	if len(d) == 0 {
		return false, nil
	}
	err = p.Loads(d)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnknownPacket), errors.Is(err, ErrInvalidData):
		return false, nil
	}
	return false, err
}
