package request

import "errors"

// ErrInternalServer is reported to the client when a handler fails unexpectedly.
var ErrInternalServer = errors.New("internal server error")
