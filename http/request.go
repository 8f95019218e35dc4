package http

import (
	"net/url"

	"github.com/slimane-swift/HTTPParser/http/headers"
	"github.com/slimane-swift/HTTPParser/http/method"
	"github.com/slimane-swift/HTTPParser/http/proto"
)

// Request is a single, fully reassembled HTTP request message
type Request struct {
	Method  method.Method
	URI     *url.URL
	Proto   proto.Proto
	Headers *headers.Headers
	Body    []byte
}

// JSON convoys the request's body to a json unmarshaller and behaves in
// a similar manner
func (r *Request) JSON(model any) error {
	return unmarshalJSON(r.Body, model)
}
