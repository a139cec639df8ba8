package domain

import "errors"

var (
	ErrMalformedPayload = errors.New("payload is missing required message event fields")
	ErrMissingParameter = errors.New("missing required parameter")
)
