package dummy

import (
	"io"
	"net"
)

// Client replays the data pieces it was initialised with, one piece per
// read, and reports io.EOF once they are exhausted
type Client struct {
	data    [][]byte
	pending []byte
	pointer int
	closed  bool
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

func (c *Client) Read() ([]byte, error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if c.pointer == len(c.data) {
		return nil, io.EOF
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Unread(takeback []byte) {
	if len(takeback) > 0 {
		c.pending = takeback
	}
}

func (*Client) Remote() net.Addr {
	return nil
}

func (c *Client) Close() error {
	c.closed = true

	return nil
}
