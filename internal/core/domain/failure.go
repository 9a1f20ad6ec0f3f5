package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a remote call failed.
type FailureKind int

const (
	// FailureUnexpected covers everything the client could not classify.
	FailureUnexpected FailureKind = iota
	// FailureConnection covers dial, reset, timeout and proxy failures.
	FailureConnection
	// FailureProtocol covers malformed or undecodable upstream responses.
	FailureProtocol
	// FailureEmptyBody is an upstream answer without a body.
	FailureEmptyBody
	// FailureChallenge is an automation challenge (captcha) served instead of data.
	FailureChallenge
)

// String returns the lower-case name of the kind.
func (k FailureKind) String() string {
	switch k {
	case FailureConnection:
		return "connection"
	case FailureProtocol:
		return "protocol"
	case FailureEmptyBody:
		return "empty_body"
	case FailureChallenge:
		return "challenge"
	default:
		return "unexpected"
	}
}

// Recoverable reports whether a failure of this kind is absorbed by racing and
// should move the identity to another proxy.
func (k FailureKind) Recoverable() bool {
	return k != FailureUnexpected
}

// RemoteError is the error returned by remote client calls.
type RemoteError struct {
	Kind FailureKind
	Op   string
	Err  error
}

// NewRemoteError builds a RemoteError for the given operation.
func NewRemoteError(kind FailureKind, op string, err error) *RemoteError {
	return &RemoteError{Kind: kind, Op: op, Err: err}
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// FailureKindOf returns the kind carried by the first RemoteError in err's chain,
// or FailureUnexpected if there is none.
func FailureKindOf(err error) FailureKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return FailureUnexpected
}
