package feed

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed fetch attempt.
type Kind string

const (
	KindNetwork Kind = "network"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
	KindShape   Kind = "shape"
)

// Path names the strategy that produced a result or an error.
type Path string

const (
	PathProxy      Path = "proxy"
	PathStructural Path = "structural"
)

// Error is a classified failure of one fetch path.
type Error struct {
	Kind       Kind
	Path       Path
	URL        string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s fetch %s: HTTP %d for %s", e.Path, e.Kind, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s fetch %s: %v for %s", e.Path, e.Kind, e.Cause, e.URL)
}

func (e *Error) Unwrap() error { return e.Cause }

// FetchError is returned when every enabled path failed for a feed.
type FetchError struct {
	URL        string
	Proxy      error
	Structural error
}

func (e *FetchError) Error() string {
	if e.Proxy == nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Structural)
	}
	return fmt.Sprintf("fetch %s: %v; fallback: %v", e.URL, e.Proxy, e.Structural)
}

// Final returns the error of the last attempted path.
func (e *FetchError) Final() error {
	if e.Structural != nil {
		return e.Structural
	}
	return e.Proxy
}

func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Proxy != nil {
		errs = append(errs, e.Proxy)
	}
	if e.Structural != nil {
		errs = append(errs, e.Structural)
	}
	return errs
}

// Recoverable reports whether err is a classified failure that another path may
// overcome. Cancellation and unclassified errors are not recoverable.
func Recoverable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	switch fe.Kind {
	case KindNetwork, KindStatus, KindDecode, KindShape:
		return true
	}
	return false
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

func networkError(path Path, url string, cause error) *Error {
	return &Error{Kind: KindNetwork, Path: path, URL: url, Cause: cause}
}

func statusError(path Path, url string, code int) *Error {
	return &Error{Kind: KindStatus, Path: path, URL: url, StatusCode: code, Cause: fmt.Errorf("HTTP %d", code)}
}

func decodeError(path Path, url string, cause error) *Error {
	return &Error{Kind: KindDecode, Path: path, URL: url, Cause: cause}
}

func shapeError(path Path, url string, cause error) *Error {
	return &Error{Kind: KindShape, Path: path, URL: url, Cause: cause}
}
