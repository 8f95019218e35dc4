package tokenizer

import (
	"bytes"
	"io"
	"strings"

	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/slimane-swift/HTTPParser/http/method"
	"github.com/slimane-swift/HTTPParser/http/proto"
	"github.com/slimane-swift/HTTPParser/http/status"
)

type Direction uint8

const (
	Request Direction = iota + 1
	Response
)

// StartLine carries the parsed facts of a message's first line. Method is
// only meaningful for requests, Status only for responses
type StartLine struct {
	Method method.Method
	Status status.Code
	Proto  proto.Proto
}

// Handler receives fragment events, fired synchronously while Execute scans
// a buffer. A single logical field may arrive via any number of fragments,
// as the tokenizer guarantees contiguous delivery only within one buffer.
// OnText carries URI bytes for requests and reason-phrase bytes for
// responses. A non-nil error returned from any event stops the scan
type Handler interface {
	OnText([]byte) error
	OnHeaderName([]byte) error
	OnHeaderValue([]byte) error
	OnHeadersComplete(StartLine) error
	OnBody([]byte) error
	OnMessageComplete() error
}

const (
	// maxTokenLength bounds method and protocol tokens buffered between calls
	maxTokenLength = 16
	// maxFramingName covers the longest header name the tokenizer itself
	// cares about, which is Transfer-Encoding
	maxFramingName = 32
	// maxFramingValue bounds buffered Content-Length and Transfer-Encoding values
	maxFramingValue = 64
)

// Tokenizer is the byte-level HTTP/1.x grammar engine. It scans raw buffers
// and fires fragment events against the registered handler, keeping no
// message content of its own: only the minimal framing state (start-line
// tokens pending between calls, body length, chunked transfer). After every
// completed message the per-message state is reset in place, and scanning
// continues within the same buffer, so pipelined messages are delivered
// back-to-back.
//
// Malformed input puts the engine into a dead state: Execute reports the
// violation and refuses any further input until Reset is called
type Tokenizer struct {
	handler Handler
	dir     Direction
	state   state
	line    StartLine

	tokenBuff []byte
	matchBuff []byte
	valueBuff []byte
	framing   special
	valueSeen bool

	statusAcc     int
	contentLength int
	bodyLeft      int
	chunked       bool
	chunkedParser *chunkedbody.Parser
}

func New(dir Direction, handler Handler) *Tokenizer {
	t := &Tokenizer{
		handler:       handler,
		tokenBuff:     make([]byte, 0, maxTokenLength),
		matchBuff:     make([]byte, 0, maxFramingName),
		valueBuff:     make([]byte, 0, maxFramingValue),
		chunkedParser: chunkedbody.NewParser(chunkedbody.DefaultSettings()),
	}
	t.Reset(dir)

	return t
}

// Execute scans the buffer, firing fragment events as it goes. It returns the
// number of bytes it accepted, which equals len(data) unless a grammar
// violation or a handler error stopped the scan
func (t *Tokenizer) Execute(data []byte) (consumed int, err error) {
	if t.state == eDead {
		return 0, ErrTokenizerIsDead
	}

	pos := 0

	for pos < len(data) {
		switch t.state {
		case eMethod:
			sp := bytes.IndexByte(data[pos:], ' ')
			if hasLineEndBefore(data[pos:], sp) {
				return t.fail(pos, ErrInvalidMethod)
			}

			if sp == -1 {
				if !t.bufferToken(data[pos:]) {
					return t.fail(pos, ErrInvalidMethod)
				}

				return len(data), nil
			}

			t.line.Method = method.Parse(uf.B2S(t.token(data[pos : pos+sp])))
			if t.line.Method == method.Unknown {
				return t.fail(pos, ErrInvalidMethod)
			}

			pos += sp + 1
			t.state = eRequestURI
		case eRequestURI:
			sp := bytes.IndexByte(data[pos:], ' ')
			if hasLineEndBefore(data[pos:], sp) {
				return t.fail(pos, ErrInvalidURI)
			}

			fragment := data[pos:]
			if sp != -1 {
				fragment = data[pos : pos+sp]
			}

			if len(fragment) > 0 {
				if err = t.handler.OnText(fragment); err != nil {
					return t.abort(pos, err)
				}
			}

			if sp == -1 {
				return len(data), nil
			}

			pos += sp + 1
			t.state = eRequestProto
		case eRequestProto:
			end := lineEnd(data[pos:])
			if end == -1 {
				if !t.bufferToken(data[pos:]) {
					return t.fail(pos, ErrUnsupportedProtocol)
				}

				return len(data), nil
			}

			t.line.Proto = proto.FromBytes(t.token(data[pos : pos+end]))
			if t.line.Proto == proto.Unknown {
				return t.fail(pos, ErrUnsupportedProtocol)
			}

			if data[pos+end] == '\r' {
				t.state = eStartLineLF
			} else {
				t.state = eHeaderName
			}

			pos += end + 1
		case eResponseProto:
			sp := bytes.IndexByte(data[pos:], ' ')
			if hasLineEndBefore(data[pos:], sp) {
				return t.fail(pos, ErrSyntax)
			}

			if sp == -1 {
				if !t.bufferToken(data[pos:]) {
					return t.fail(pos, ErrUnsupportedProtocol)
				}

				return len(data), nil
			}

			t.line.Proto = proto.FromBytes(t.token(data[pos : pos+sp]))
			if t.line.Proto == proto.Unknown {
				return t.fail(pos, ErrUnsupportedProtocol)
			}

			pos += sp + 1
			t.state = eStatusCode
		case eStatusCode:
			for pos < len(data) && data[pos] >= '0' && data[pos] <= '9' {
				t.statusAcc = t.statusAcc*10 + int(data[pos]-'0')
				if t.statusAcc > 999 {
					return t.fail(pos, ErrInvalidStatus)
				}

				pos++
			}

			if pos == len(data) {
				return len(data), nil
			}

			if t.statusAcc < 100 {
				return t.fail(pos, ErrInvalidStatus)
			}

			t.line.Status = status.Code(t.statusAcc)

			switch data[pos] {
			case ' ':
				t.state = eReasonPhrase
			case '\r':
				t.state = eStartLineLF
			case '\n':
				t.state = eHeaderName
			default:
				return t.fail(pos, ErrInvalidStatus)
			}

			pos++
		case eReasonPhrase:
			end := lineEnd(data[pos:])
			fragment := data[pos:]
			if end != -1 {
				fragment = data[pos : pos+end]
			}

			if len(fragment) > 0 {
				if err = t.handler.OnText(fragment); err != nil {
					return t.abort(pos, err)
				}
			}

			if end == -1 {
				return len(data), nil
			}

			if data[pos+end] == '\r' {
				t.state = eStartLineLF
			} else {
				t.state = eHeaderName
			}

			pos += end + 1
		case eStartLineLF:
			if data[pos] != '\n' {
				return t.fail(pos, ErrSyntax)
			}

			pos++
			t.state = eHeaderName
		case eHeaderName:
			if data[pos] == '\r' || data[pos] == '\n' {
				if len(t.matchBuff) != 0 {
					// a header name followed by a line break instead of a colon
					return t.fail(pos, ErrInvalidHeader)
				}

				if data[pos] == '\r' {
					pos++
					t.state = eHeadersEndLF
					continue
				}

				pos++
				if err = t.completeHeaders(); err != nil {
					return t.abort(pos, err)
				}

				continue
			}

			colon := bytes.IndexByte(data[pos:], ':')
			if hasLineEndBefore(data[pos:], colon) {
				return t.fail(pos, ErrInvalidHeader)
			}

			fragment := data[pos:]
			if colon != -1 {
				fragment = data[pos : pos+colon]
			}

			if len(fragment) > 0 {
				t.bufferMatch(fragment)

				if err = t.handler.OnHeaderName(fragment); err != nil {
					return t.abort(pos, err)
				}
			}

			if colon == -1 {
				return len(data), nil
			}

			if len(t.matchBuff) == 0 {
				return t.fail(pos, ErrInvalidHeader)
			}

			t.framing = t.matchSpecial()
			pos += colon + 1
			t.state = eHeaderValueStart
		case eHeaderValueStart:
			for pos < len(data) && (data[pos] == ' ' || data[pos] == '\t') {
				pos++
			}

			if pos == len(data) {
				return len(data), nil
			}

			t.state = eHeaderValue
		case eHeaderValue:
			end := lineEnd(data[pos:])
			fragment := data[pos:]
			if end != -1 {
				fragment = data[pos : pos+end]
			}

			if len(fragment) > 0 {
				if t.framing != specialNone && !t.bufferValue(fragment) {
					return t.fail(pos, ErrInvalidHeader)
				}

				t.valueSeen = true

				if err = t.handler.OnHeaderValue(fragment); err != nil {
					return t.abort(pos, err)
				}
			}

			if end == -1 {
				return len(data), nil
			}

			if !t.valueSeen {
				// the field has an empty value; a single empty fragment still
				// lets the handler commit the header name
				if err = t.handler.OnHeaderValue(fragment[:0]); err != nil {
					return t.abort(pos, err)
				}
			}

			if ferr := t.endHeaderLine(); ferr != nil {
				return t.fail(pos, ferr)
			}

			if data[pos+end] == '\r' {
				t.state = eHeaderLineLF
			} else {
				t.state = eHeaderName
			}

			pos += end + 1
		case eHeaderLineLF:
			if data[pos] != '\n' {
				return t.fail(pos, ErrSyntax)
			}

			pos++
			t.state = eHeaderName
		case eHeadersEndLF:
			if data[pos] != '\n' {
				return t.fail(pos, ErrSyntax)
			}

			pos++
			if err = t.completeHeaders(); err != nil {
				return t.abort(pos, err)
			}
		case eBody:
			n := len(data) - pos
			if n > t.bodyLeft {
				n = t.bodyLeft
			}

			if err = t.handler.OnBody(data[pos : pos+n]); err != nil {
				return t.abort(pos, err)
			}

			t.bodyLeft -= n
			pos += n

			if t.bodyLeft == 0 {
				if err = t.completeMessage(); err != nil {
					return t.abort(pos, err)
				}
			}
		case eChunkedBody:
			chunk, extra, cerr := t.chunkedParser.Parse(data[pos:], false)
			switch cerr {
			case nil, io.EOF:
			default:
				return t.fail(pos, ErrInvalidChunk)
			}

			if len(chunk) > 0 {
				if err = t.handler.OnBody(chunk); err != nil {
					return t.abort(pos, err)
				}
			}

			pos = len(data) - len(extra)

			if cerr == io.EOF {
				if err = t.completeMessage(); err != nil {
					return t.abort(pos, err)
				}
			}
		default:
			return t.fail(pos, ErrTokenizerIsDead)
		}
	}

	return len(data), nil
}

// Reset reinitializes the per-message state in place, reviving the engine
// after an error. The accumulated framing state of an aborted message is
// discarded
func (t *Tokenizer) Reset(dir Direction) {
	t.dir = dir
	t.resetMessage()

	// an aborted chunked transfer leaves the chunked parser mid-stream
	t.chunkedParser = chunkedbody.NewParser(chunkedbody.DefaultSettings())
}

func (t *Tokenizer) completeHeaders() error {
	if err := t.handler.OnHeadersComplete(t.line); err != nil {
		return err
	}

	switch {
	case t.chunked:
		t.state = eChunkedBody
	case t.contentLength > 0:
		t.bodyLeft = t.contentLength
		t.state = eBody
	default:
		return t.completeMessage()
	}

	return nil
}

func (t *Tokenizer) completeMessage() error {
	if err := t.handler.OnMessageComplete(); err != nil {
		return err
	}

	t.resetMessage()

	return nil
}

func (t *Tokenizer) resetMessage() {
	t.line = StartLine{}
	t.statusAcc = 0
	t.contentLength = 0
	t.bodyLeft = 0
	t.chunked = false
	t.framing = specialNone
	t.valueSeen = false
	t.tokenBuff = t.tokenBuff[:0]
	t.matchBuff = t.matchBuff[:0]
	t.valueBuff = t.valueBuff[:0]

	if t.dir == Request {
		t.state = eMethod
	} else {
		t.state = eResponseProto
	}
}

func (t *Tokenizer) fail(pos int, err *Error) (int, error) {
	t.state = eDead

	return pos, err
}

func (t *Tokenizer) abort(pos int, err error) (int, error) {
	t.state = eDead

	return pos, err
}

// token joins the passed tail with bytes pending from previous calls. The
// returned slice must be consumed before the next buffering operation
func (t *Tokenizer) token(tail []byte) []byte {
	if len(t.tokenBuff) == 0 {
		return tail
	}

	joined := append(t.tokenBuff, tail...)
	t.tokenBuff = t.tokenBuff[:0]

	return joined
}

func (t *Tokenizer) bufferToken(b []byte) bool {
	if len(t.tokenBuff)+len(b) > maxTokenLength {
		return false
	}

	t.tokenBuff = append(t.tokenBuff, b...)

	return true
}

func (t *Tokenizer) bufferMatch(b []byte) {
	space := maxFramingName - len(t.matchBuff)
	if space <= 0 {
		return
	}

	if len(b) > space {
		b = b[:space]
	}

	t.matchBuff = append(t.matchBuff, b...)
}

func (t *Tokenizer) bufferValue(b []byte) bool {
	if len(t.valueBuff)+len(b) > maxFramingValue {
		return false
	}

	t.valueBuff = append(t.valueBuff, b...)

	return true
}

func (t *Tokenizer) matchSpecial() special {
	name := uf.B2S(t.matchBuff)

	switch {
	case strcomp.EqualFold(name, "content-length"):
		return specialContentLength
	case strcomp.EqualFold(name, "transfer-encoding"):
		return specialTransferEncoding
	}

	return specialNone
}

// endHeaderLine finishes framing bookkeeping for the header field whose value
// just terminated
func (t *Tokenizer) endHeaderLine() *Error {
	switch t.framing {
	case specialContentLength:
		length, ok := parseContentLength(t.valueBuff)
		if !ok {
			return ErrInvalidContentLength
		}

		t.contentLength = length
	case specialTransferEncoding:
		t.chunked = hasChunkedToken(uf.B2S(t.valueBuff))
	}

	t.framing = specialNone
	t.valueSeen = false
	t.matchBuff = t.matchBuff[:0]
	t.valueBuff = t.valueBuff[:0]

	return nil
}

func parseContentLength(b []byte) (length int, ok bool) {
	b = bytes.TrimRight(b, " ")
	if len(b) == 0 {
		return 0, false
	}

	for _, char := range b {
		if char < '0' || char > '9' {
			return 0, false
		}

		length = length*10 + int(char-'0')
	}

	return length, true
}

func hasChunkedToken(value string) bool {
	for len(value) > 0 {
		var token string

		comma := strings.IndexByte(value, ',')
		if comma == -1 {
			token, value = value, ""
		} else {
			token, value = value[:comma], value[comma+1:]
		}

		if strcomp.EqualFold(strings.TrimSpace(token), "chunked") {
			return true
		}
	}

	return false
}

// lineEnd returns the index of the first CR or LF, or -1 if the buffer
// contains neither
func lineEnd(b []byte) int {
	cr := bytes.IndexByte(b, '\r')
	lf := bytes.IndexByte(b, '\n')

	switch {
	case cr == -1:
		return lf
	case lf == -1:
		return cr
	case cr < lf:
		return cr
	default:
		return lf
	}
}

func hasLineEndBefore(b []byte, delim int) bool {
	end := lineEnd(b)
	if end == -1 {
		return false
	}

	return delim == -1 || end < delim
}
