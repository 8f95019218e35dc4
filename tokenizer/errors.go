package tokenizer

// Code is a numeric identifier of a grammar violation. It survives the
// wrapping of an Error into higher-level errors, so callers can tell apart
// failure causes without string matching
type Code uint8

const (
	CodeUnknown Code = iota
	CodeInvalidMethod
	CodeInvalidURI
	CodeUnsupportedProtocol
	CodeInvalidStatus
	CodeInvalidHeader
	CodeInvalidContentLength
	CodeInvalidChunk
	CodeSyntax
	CodeDead
)

type Error struct {
	Code    Code
	Message string
}

func newError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidMethod        = newError(CodeInvalidMethod, "invalid request method")
	ErrInvalidURI           = newError(CodeInvalidURI, "malformed request URI")
	ErrUnsupportedProtocol  = newError(CodeUnsupportedProtocol, "protocol is not supported")
	ErrInvalidStatus        = newError(CodeInvalidStatus, "invalid response status code")
	ErrInvalidHeader        = newError(CodeInvalidHeader, "malformed header field")
	ErrInvalidContentLength = newError(CodeInvalidContentLength, "invalid Content-Length value")
	ErrInvalidChunk         = newError(CodeInvalidChunk, "malformed chunk-encoded data")
	ErrSyntax               = newError(CodeSyntax, "malformed CRLF sequence")
	ErrTokenizerIsDead      = newError(CodeDead, "tokenizer must be reset after an error")
)
