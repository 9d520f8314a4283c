package api

import "fmt"

// StatusError is a server rejection: a response arrived with a non-2xx,
// non-401 status. Detail carries the server-provided message when one could
// be decoded, otherwise the HTTP status text.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Code, e.Detail)
}
