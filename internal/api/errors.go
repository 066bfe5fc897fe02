package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"auctioneer/internal/model"
)

// Error is a failed API call. Non-2xx responses carry the status code and
// the server's status text; transport and decode failures carry the cause.
type Error struct {
	kind       model.ErrorKind
	StatusCode int
	StatusText string
	err        error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("API error: %d %s", e.StatusCode, e.StatusText)
}

func (e *Error) Unwrap() error { return e.err }

// Kind classifies the failure.
func (e *Error) Kind() model.ErrorKind { return e.kind }

func unexpected(err error) *Error {
	return &Error{kind: model.KindUnexpected, err: err}
}

func kindForStatus(code int) model.ErrorKind {
	switch code {
	case http.StatusNotFound:
		return model.KindNotFound
	case http.StatusUnauthorized:
		return model.KindSessionExpired
	default:
		return model.KindServer
	}
}

func statusError(resp *http.Response) *Error {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &Error{
		kind:       kindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		StatusText: text,
	}
}

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.kind == model.KindNotFound
}

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.kind == model.KindSessionExpired
}
