package model

import "errors"

// ErrorKind classifies the failures a store operation can report.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindNotFound
	KindSessionExpired
	KindServer
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindSessionExpired:
		return "session expired"
	case KindServer:
		return "server"
	default:
		return "unexpected"
	}
}

// ErrValidation is returned by submit operations when a field is invalid.
// The field errors themselves are read from the form values.
var ErrValidation = errors.New("one or more fields are invalid")

type kinded interface {
	Kind() ErrorKind
}

// KindOf classifies err. Errors that carry no kind are unexpected.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnexpected
}
