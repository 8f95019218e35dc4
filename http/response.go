package http

import (
	json "github.com/json-iterator/go"

	"github.com/slimane-swift/HTTPParser/http/headers"
	"github.com/slimane-swift/HTTPParser/http/proto"
	"github.com/slimane-swift/HTTPParser/http/status"
)

// Response is a single, fully reassembled HTTP response message.
//
// Cookies holds raw Set-Cookie field values. They are kept verbatim and apart
// from Headers, as folding them into a single comma-separated value would
// corrupt cookie attributes like Expires
type Response struct {
	Proto   proto.Proto
	Status  status.Code
	Reason  string
	Headers *headers.Headers
	Cookies []string
	Body    []byte
}

// JSON convoys the response's body to a json unmarshaller and behaves in
// a similar manner
func (r *Response) JSON(model any) error {
	return unmarshalJSON(r.Body, model)
}

func unmarshalJSON(data []byte, model any) error {
	iterator := json.ConfigDefault.BorrowIterator(data)
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}
