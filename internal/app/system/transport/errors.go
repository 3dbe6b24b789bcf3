// internal/app/system/transport/errors.go
package transport

import "fmt"

// HttpError is a non-2xx server response. Message carries the most specific
// error the server offered: its JSON "detail" field, then its JSON "error"
// field, then the raw body text, then a synthesized "HTTP <status>".
type HttpError struct {
	Status  int
	Message string
}

func (e *HttpError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsUnauthorized reports whether e is a 401.
func (e *HttpError) IsUnauthorized() bool { return e.Status == 401 }

// TransportError wraps a request that never produced a response (DNS
// failure, refused connection, canceled context). The underlying error is
// preserved unmodified.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
