package s3store

import (
	"errors"
	"fmt"
)

// MissingParameterError reports a required request field that was left
// empty. Validation always fails before any request is sent.
type MissingParameterError struct {
	Op    string // operation that rejected the request
	Param string // name of the missing field
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: missing required parameter %q", e.Op, e.Param)
}

// ConnectionError reports that client construction or the liveness probe
// failed during Connect.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("s3store: connect: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DelegatedError wraps a failure returned by the underlying S3 call.
type DelegatedError struct {
	Op  string
	Err error
}

func (e *DelegatedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DelegatedError) Unwrap() error { return e.Err }

// IsMissingParameter reports whether err is a validation failure for an
// absent request field.
func IsMissingParameter(err error) bool {
	var mp *MissingParameterError
	return errors.As(err, &mp)
}

// IsConnection reports whether err originated from Connect.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
