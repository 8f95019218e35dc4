package httpparser

import (
	"net"

	"github.com/slimane-swift/HTTPParser/http"
	"github.com/slimane-swift/HTTPParser/tokenizer"
	"github.com/slimane-swift/HTTPParser/transport"
)

// ResponseParser reassembles HTTP responses arriving on a stream. Parse
// blocks until a complete response is available.
//
// An instance serves one connection and must not be invoked concurrently
type ResponseParser struct {
	client  transport.Client
	tok     *tokenizer.Tokenizer
	asm     *assembler
	pending []*http.Response
}

func NewResponseParser(client transport.Client, cfg *Config) *ResponseParser {
	if cfg == nil {
		cfg = Default()
	}

	p := &ResponseParser{client: client}
	p.asm = newAssembler(tokenizer.Response, cfg)
	p.asm.onResponse = func(response *http.Response) {
		p.pending = append(p.pending, response)
	}
	p.tok = tokenizer.New(tokenizer.Response, p.asm)

	return p
}

// NewConnResponseParser wraps the connection into a transport.Client with a
// read buffer of cfg.NET.ReadBufferSize bytes
func NewConnResponseParser(conn net.Conn, cfg *Config) *ResponseParser {
	if cfg == nil {
		cfg = Default()
	}

	client := transport.NewClient(conn, cfg.NET.ReadTimeout, make([]byte, cfg.NET.ReadBufferSize))

	return NewResponseParser(client, cfg)
}

// Parse blocks until the next response completes, draining previously
// reassembled ones first, in arrival order.
//
// A ParseError aborts only the in-flight message, leaving the parser usable
// for the next one. Stream errors are returned verbatim and mean the
// connection itself is gone: the parser should be discarded with it
func (p *ResponseParser) Parse() (*http.Response, error) {
	for {
		if len(p.pending) > 0 {
			response := p.pending[0]
			p.pending = p.pending[1:]

			return response, nil
		}

		data, err := p.client.Read()
		if err != nil {
			return nil, err
		}

		if err = feed(p.tok, p.asm, tokenizer.Response, data); err != nil {
			return nil, err
		}
	}
}
