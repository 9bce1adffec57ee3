package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindRejected     Kind = "rejected"
	KindServer       Kind = "server"
	KindDecode       Kind = "decode"
	KindEmpty        Kind = "empty_response"
)

// Error is returned by every Client method that reached (or tried to reach)
// the backend.
type Error struct {
	Kind       Kind
	Op         string // e.g. "websites.list"
	StatusCode int    // 0 when no response arrived
	Message    string // backend-provided message, if any
	Err        error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + string(e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindUnauthorized
	case code == http.StatusNotFound:
		return KindNotFound
	case code >= 500:
		return KindServer
	default:
		return KindRejected
	}
}
