package tokenizer

type state uint8

const (
	eMethod state = iota + 1
	eRequestURI
	eRequestProto
	eResponseProto
	eStatusCode
	eReasonPhrase
	eStartLineLF
	eHeaderName
	eHeaderValueStart
	eHeaderValue
	eHeaderLineLF
	eHeadersEndLF
	eBody
	eChunkedBody
	eDead
)

type special uint8

const (
	specialNone special = iota
	specialContentLength
	specialTransferEncoding
)
