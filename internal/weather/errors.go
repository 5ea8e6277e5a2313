package weather

import (
	"errors"
	"fmt"
)

// ErrorKind tags lookup failures so callers branch on kind, not message text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindLocationNotFound
	KindTransport
	KindMalformed
	KindExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case KindLocationNotFound:
		return "location_not_found"
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed_response"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

var (
	// ErrMissingLocation is returned when no location was given and none is remembered.
	ErrMissingLocation = errors.New("a location is required")

	// ErrNotStored is returned by stores when a user has no remembered location.
	ErrNotStored = errors.New("no stored value")

	errNoLocation = errors.New("No such location could be found.")
)

// Error is a tagged lookup failure.
type Error struct {
	Kind   ErrorKind
	Source SourceID
	Query  string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindExhausted:
		return fmt.Sprintf("Could not retrieve weather for %q.", e.Query)
	case KindLocationNotFound:
		return errNoLocation.Error()
	case KindTransport:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	default:
		if e.Err == nil {
			return e.Kind.String()
		}
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PossibleBug reports whether the failure points at a changed page layout.
func (e *Error) PossibleBug() bool {
	return e.Kind == KindMalformed
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func NotFoundError(src SourceID) error {
	return &Error{Kind: KindLocationNotFound, Source: src, Err: errNoLocation}
}

func TransportError(src SourceID, err error) error {
	return &Error{Kind: KindTransport, Source: src, Err: err}
}

func MalformedError(src SourceID, msg string) error {
	return &Error{Kind: KindMalformed, Source: src, Err: errors.New(msg)}
}

func exhaustedError(query string) error {
	return &Error{Kind: KindExhausted, Query: query}
}
