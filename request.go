package httpparser

import (
	"github.com/slimane-swift/HTTPParser/http"
	"github.com/slimane-swift/HTTPParser/tokenizer"
)

// RequestParser reassembles pipelined HTTP requests out of raw bytes pushed
// by the caller. It never blocks.
//
// An instance serves one connection and must not be invoked concurrently
type RequestParser struct {
	tok     *tokenizer.Tokenizer
	asm     *assembler
	pending []*http.Request
}

func NewRequestParser(cfg *Config) *RequestParser {
	if cfg == nil {
		cfg = Default()
	}

	p := new(RequestParser)
	p.asm = newAssembler(tokenizer.Request, cfg)
	p.asm.onRequest = func(request *http.Request) {
		p.pending = append(p.pending, request)
	}
	p.tok = tokenizer.New(tokenizer.Request, p.asm)

	return p
}

// Parse feeds the buffer to the tokenizer and returns the oldest fully
// reassembled request, or nil if none has completed yet. Requests pipelined
// within a single buffer stay queued and are drained by subsequent calls,
// one per call, in arrival order.
//
// Malformed input fails with a ParseError carrying the tokenizer's code and
// discards the in-flight message only: the next call starts a fresh message
// with no residue from the aborted one
func (p *RequestParser) Parse(data []byte) (*http.Request, error) {
	if err := feed(p.tok, p.asm, tokenizer.Request, data); err != nil {
		return nil, err
	}

	if len(p.pending) == 0 {
		return nil, nil
	}

	request := p.pending[0]
	p.pending = p.pending[1:]

	return request, nil
}

func feed(tok *tokenizer.Tokenizer, asm *assembler, dir tokenizer.Direction, data []byte) error {
	consumed, err := tok.Execute(data)
	if err == nil && consumed == len(data) {
		return nil
	}

	tok.Reset(dir)
	asm.reset()

	if err == nil {
		err = &ParseError{Code: tokenizer.CodeUnknown, Message: "input was not fully consumed"}
	}

	return wrapParseError(err)
}
