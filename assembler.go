package httpparser

import (
	"net/url"

	"github.com/indigo-web/utils/strcomp"

	"github.com/slimane-swift/HTTPParser/http"
	"github.com/slimane-swift/HTTPParser/http/headers"
	"github.com/slimane-swift/HTTPParser/tokenizer"
)

const setCookie = "Set-Cookie"

// assembler folds tokenizer fragment events into the message being built.
// Exactly one message is in flight at a time; every accumulated field is
// wiped after each completion and after each error, so the same instance
// serves a persistent connection indefinitely.
//
// A header name is committed the moment its first value fragment arrives:
// until then the name itself may still be arriving in pieces. Repeated field
// names fold into a single comma-separated value, except Set-Cookie, whose
// values are diverted and kept distinct
type assembler struct {
	dir tokenizer.Direction
	cfg *Config

	text        []byte
	headerName  []byte
	committed   string
	cookieValue []byte

	uri     *url.URL
	line    tokenizer.StartLine
	headers *headers.Headers
	cookies []string
	body    []byte

	onRequest  func(*http.Request)
	onResponse func(*http.Response)
}

func newAssembler(dir tokenizer.Direction, cfg *Config) *assembler {
	a := &assembler{
		dir: dir,
		cfg: cfg,
	}
	a.reset()

	return a
}

func (a *assembler) OnText(b []byte) error {
	a.text = append(a.text, b...)

	return nil
}

func (a *assembler) OnHeaderName(b []byte) error {
	if len(a.committed) != 0 {
		// a new field begins
		a.committed = ""
	}

	if len(a.cookieValue) != 0 {
		a.flushCookie()
	}

	a.headerName = append(a.headerName, b...)

	return nil
}

func (a *assembler) OnHeaderValue(b []byte) error {
	if len(a.committed) == 0 {
		a.committed = string(a.headerName)
		a.headerName = a.headerName[:0]

		if a.headers.Has(a.committed) {
			a.headers.Append(a.committed, ", ")
		}
	}

	if a.dir == tokenizer.Response && strcomp.EqualFold(a.committed, setCookie) {
		a.cookieValue = append(a.cookieValue, b...)

		return nil
	}

	a.headers.Append(a.committed, string(b))

	return nil
}

func (a *assembler) OnHeadersComplete(line tokenizer.StartLine) error {
	if len(a.cookieValue) != 0 {
		a.flushCookie()
	}

	a.headerName = a.headerName[:0]
	a.committed = ""
	a.line = line

	if a.dir == tokenizer.Request {
		uri, err := url.ParseRequestURI(string(a.text))
		if err != nil {
			return err
		}

		a.uri = uri
		a.text = a.text[:0]
	}

	return nil
}

func (a *assembler) OnBody(b []byte) error {
	if a.body == nil {
		a.body = make([]byte, 0, a.cfg.Body.Prealloc)
	}

	a.body = append(a.body, b...)

	return nil
}

func (a *assembler) OnMessageComplete() error {
	switch a.dir {
	case tokenizer.Request:
		a.onRequest(&http.Request{
			Method:  a.line.Method,
			URI:     a.uri,
			Proto:   a.line.Proto,
			Headers: a.headers,
			Body:    a.body,
		})
	case tokenizer.Response:
		a.onResponse(&http.Response{
			Proto:   a.line.Proto,
			Status:  a.line.Status,
			Reason:  string(a.text),
			Headers: a.headers,
			Cookies: a.cookies,
			Body:    a.body,
		})
	}

	a.reset()

	return nil
}

// reset restores every transient field to its initial emptiness. Storage
// handed off to a completed message is left behind and allocated anew
func (a *assembler) reset() {
	a.text = a.text[:0]
	a.headerName = a.headerName[:0]
	a.committed = ""
	a.cookieValue = a.cookieValue[:0]
	a.uri = nil
	a.line = tokenizer.StartLine{}
	a.headers = headers.NewPrealloc(a.cfg.Headers.Prealloc)
	a.cookies = nil
	a.body = nil
}

func (a *assembler) flushCookie() {
	if a.cookies == nil {
		a.cookies = make([]string, 0, a.cfg.Headers.CookiesPrealloc)
	}

	a.cookies = append(a.cookies, string(a.cookieValue))
	a.cookieValue = a.cookieValue[:0]
}
