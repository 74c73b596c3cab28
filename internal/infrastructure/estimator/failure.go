package estimator

import (
	"errors"
	"fmt"
)

// ErrUnavailable is what every Failure collapses to for callers.
var ErrUnavailable = errors.New("external estimate unavailable")

// FailureKind tags why the external estimate could not be used. Logged, never shown to clients.
type FailureKind string

const (
	KindMissingCredentials FailureKind = "missing_credentials"
	KindRateLimited        FailureKind = "rate_limited"
	KindTimeout            FailureKind = "timeout"
	KindTransport          FailureKind = "transport"
	KindHTTPStatus         FailureKind = "http_status"
	KindEnvelope           FailureKind = "envelope"
	KindEmptyContent       FailureKind = "empty_content"
	KindMalformedJSON      FailureKind = "malformed_json"
	KindSchemaMismatch     FailureKind = "schema_mismatch"
	KindNonPositive        FailureKind = "non_positive"
)

// Failure is the only error type Client.Estimate returns.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func fail(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("external estimator %s", f.Kind)
	if f.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", f.StatusCode)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool { return target == ErrUnavailable }

// KindOf returns the failure kind of err, or "" when err is not a Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}
