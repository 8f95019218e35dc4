package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slimane-swift/HTTPParser/http/method"
	"github.com/slimane-swift/HTTPParser/http/proto"
	"github.com/slimane-swift/HTTPParser/http/status"
)

type event struct {
	kind string
	data string
}

// recorder logs every fragment event as-is, so tests can assert both the
// exact event sequence and the fragmentation behaviour
type recorder struct {
	events []event
	line   StartLine
}

func (r *recorder) OnText(b []byte) error {
	r.events = append(r.events, event{"text", string(b)})
	return nil
}

func (r *recorder) OnHeaderName(b []byte) error {
	r.events = append(r.events, event{"name", string(b)})
	return nil
}

func (r *recorder) OnHeaderValue(b []byte) error {
	r.events = append(r.events, event{"value", string(b)})
	return nil
}

func (r *recorder) OnHeadersComplete(line StartLine) error {
	r.line = line
	r.events = append(r.events, event{"headers-complete", ""})
	return nil
}

func (r *recorder) OnBody(b []byte) error {
	r.events = append(r.events, event{"body", string(b)})
	return nil
}

func (r *recorder) OnMessageComplete() error {
	r.events = append(r.events, event{"complete", ""})
	return nil
}

// folded merges consecutive events of the same kind, erasing the effect of
// arbitrary fragmentation
func (r *recorder) folded() (events []event) {
	for _, e := range r.events {
		if n := len(events); n > 0 && events[n-1].kind == e.kind {
			events[n-1].data += e.data
			continue
		}

		events = append(events, e)
	}

	return events
}

func (r *recorder) completed() (n int) {
	for _, e := range r.events {
		if e.kind == "complete" {
			n++
		}
	}

	return n
}

func execAll(t *testing.T, tok *Tokenizer, data []byte) {
	consumed, err := tok.Execute(data)
	require.NoError(t, err)
	require.Equal(t, len(data), consumed)
}

func TestRequestEvents(t *testing.T) {
	r := new(recorder)
	tok := New(Request, r)

	execAll(t, tok, []byte("GET /foo HTTP/1.1\r\nHost: x\r\n\r\n"))

	require.Equal(t, []event{
		{"text", "/foo"},
		{"name", "Host"},
		{"value", "x"},
		{"headers-complete", ""},
		{"complete", ""},
	}, r.events)
	require.Equal(t, method.GET, r.line.Method)
	require.Equal(t, proto.HTTP11, r.line.Proto)
}

func TestRequestWithBody(t *testing.T) {
	r := new(recorder)
	tok := New(Request, r)

	execAll(t, tok, []byte("POST /submit HTTP/1.1\r\nContent-Length: 11\r\n\r\nhello world"))

	require.Equal(t, []event{
		{"text", "/submit"},
		{"name", "Content-Length"},
		{"value", "11"},
		{"headers-complete", ""},
		{"body", "hello world"},
		{"complete", ""},
	}, r.events)
	require.Equal(t, method.POST, r.line.Method)
}

func TestResponseEvents(t *testing.T) {
	r := new(recorder)
	tok := New(Response, r)

	execAll(t, tok, []byte("HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n"))

	require.Equal(t, []event{
		{"text", "Not Found"},
		{"name", "Content-Length"},
		{"value", "0"},
		{"headers-complete", ""},
		{"complete", ""},
	}, r.events)
	require.Equal(t, status.NotFound, r.line.Status)
	require.Equal(t, proto.HTTP11, r.line.Proto)
}

func TestResponseWithoutReason(t *testing.T) {
	r := new(recorder)
	tok := New(Response, r)

	execAll(t, tok, []byte("HTTP/1.1 204\r\n\r\n"))

	require.Equal(t, 1, r.completed())
	require.Equal(t, status.NoContent, r.line.Status)
}

func TestPerByteFeed(t *testing.T) {
	r := new(recorder)
	tok := New(Request, r)
	raw := []byte("POST /a/b HTTP/1.0\r\nHost: example.com\r\nAccept: */*\r\nContent-Length: 5\r\n\r\nhello")

	for i := range raw {
		consumed, err := tok.Execute(raw[i : i+1])
		require.NoError(t, err)
		require.Equal(t, 1, consumed)
	}

	require.Equal(t, []event{
		{"text", "/a/b"},
		{"name", "Host"},
		{"value", "example.com"},
		{"name", "Accept"},
		{"value", "*/*"},
		{"name", "Content-Length"},
		{"value", "5"},
		{"headers-complete", ""},
		{"body", "hello"},
		{"complete", ""},
	}, r.folded())
	require.Equal(t, method.POST, r.line.Method)
	require.Equal(t, proto.HTTP10, r.line.Proto)
}

func TestEmptyHeaderValue(t *testing.T) {
	r := new(recorder)
	tok := New(Request, r)

	execAll(t, tok, []byte("GET / HTTP/1.1\r\nX-Empty:\r\n\r\n"))

	require.Equal(t, []event{
		{"text", "/"},
		{"name", "X-Empty"},
		{"value", ""},
		{"headers-complete", ""},
		{"complete", ""},
	}, r.events)
}

func TestPipelinedExecute(t *testing.T) {
	r := new(recorder)
	tok := New(Request, r)

	execAll(t, tok, []byte("GET /1 HTTP/1.1\r\n\r\nGET /2 HTTP/1.1\r\n\r\n"))

	require.Equal(t, 2, r.completed())
}

func TestChunkedBody(t *testing.T) {
	r := new(recorder)
	tok := New(Request, r)
	raw := []byte(
		"POST /upload HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
			"5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n",
	)

	execAll(t, tok, raw)

	require.Equal(t, 1, r.completed())

	var body string
	for _, e := range r.folded() {
		if e.kind == "body" {
			body = e.data
		}
	}
	require.Equal(t, "hello world", body)
}

func TestMalformedInput(t *testing.T) {
	samples := []struct {
		name string
		dir  Direction
		raw  string
		code Code
	}{
		{"unknown method", Request, "BOGUS / HTTP/1.1\r\n\r\n", CodeInvalidMethod},
		{"line break inside method", Request, "GET\r\n\r\n", CodeInvalidMethod},
		{"unsupported protocol", Request, "GET / HTTP/9.9\r\n\r\n", CodeUnsupportedProtocol},
		{"header without colon", Request, "GET / HTTP/1.1\r\nWeird\r\n\r\n", CodeInvalidHeader},
		{"empty header name", Request, "GET / HTTP/1.1\r\n: oops\r\n\r\n", CodeInvalidHeader},
		{"bad content length", Request, "GET / HTTP/1.1\r\nContent-Length: five\r\n\r\n", CodeInvalidContentLength},
		{"broken CRLF", Request, "GET / HTTP/1.1\rX", CodeSyntax},
		{"garbage status line", Response, "BOGUS\r\n\r\n", CodeSyntax},
		{"non-numeric status", Response, "HTTP/1.1 OK\r\n\r\n", CodeInvalidStatus},
		{"status code out of range", Response, "HTTP/1.1 2000 OK\r\n\r\n", CodeInvalidStatus},
	}

	for _, sample := range samples {
		t.Run(sample.name, func(t *testing.T) {
			tok := New(sample.dir, new(recorder))

			consumed, err := tok.Execute([]byte(sample.raw))
			require.Error(t, err)
			require.Less(t, consumed, len(sample.raw))

			var terr *Error
			require.ErrorAs(t, err, &terr)
			require.Equal(t, sample.code, terr.Code)
		})
	}
}

func TestDeadUntilReset(t *testing.T) {
	r := new(recorder)
	tok := New(Request, r)

	_, err := tok.Execute([]byte("BOGUS / HTTP/1.1\r\n\r\n"))
	require.Error(t, err)

	_, err = tok.Execute([]byte("GET / HTTP/1.1\r\n\r\n"))
	require.ErrorIs(t, err, ErrTokenizerIsDead)

	tok.Reset(Request)
	execAll(t, tok, []byte("GET / HTTP/1.1\r\n\r\n"))
	require.Equal(t, 1, r.completed())
}
