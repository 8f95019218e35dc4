package transport

import (
	"net"
	"time"
)

// Client is a stream of raw bytes arriving from a connection. Read returns a
// view into an internal buffer that stays valid until the next call
type Client interface {
	Read() ([]byte, error)
	Unread([]byte)
	Remote() net.Addr
	Close() error
}

type client struct {
	conn    net.Conn
	buff    []byte
	pending []byte
	timeout time.Duration
}

// NewClient wraps the connection. The buffer is reused across reads, so a
// single read never returns more than len(buff) bytes
func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		buff:    buff,
		conn:    conn,
		timeout: timeout,
	}
}

func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)
	if err != nil {
		return nil, err
	}

	return c.buff[:n], nil
}

func (c *client) Unread(takeback []byte) {
	if len(takeback) > 0 {
		c.pending = takeback
	}
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
