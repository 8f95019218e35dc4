package httpparser

import (
	"errors"
	"fmt"

	"github.com/slimane-swift/HTTPParser/tokenizer"
)

// ParseError reports malformed input on the connection. It aborts only the
// message being reassembled: the parser has already reset itself by the time
// the error is returned, and stays usable for the messages that follow
type ParseError struct {
	// Code is the tokenizer's numeric identifier of the grammar violation
	Code    tokenizer.Code
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// wrapParseError translates tokenizer errors into ParseError, keeping their
// numeric code. Handler-originated errors, like a rejected request-line URI,
// pass through untouched
func wrapParseError(err error) error {
	var terr *tokenizer.Error
	if errors.As(err, &terr) {
		return &ParseError{Code: terr.Code, Message: terr.Message}
	}

	return err
}
