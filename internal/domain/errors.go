package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures for the reconciliation policy.
type ErrorKind int

const (
	// KindUnavailable is transient: network failure, expired auth, rate
	// limit. Affected records stay pending and retry on the next pass.
	KindUnavailable ErrorKind = iota
	// KindRejected is permanent for that record: remote validation
	// failure, record vanished, permission revoked for that item.
	KindRejected
	// KindUnsupported means a push was attempted on a read-only adapter.
	// This is a programming error, not a runtime condition.
	KindUnsupported
)

// ProviderError wraps a provider failure with its reconciliation class.
type ProviderError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	var kind string
	switch e.Kind {
	case KindRejected:
		kind = "rejected"
	case KindUnsupported:
		kind = "unsupported"
	default:
		kind = "unavailable"
	}
	return fmt.Sprintf("provider %s %s: %v", e.Provider, kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(kind ErrorKind, provider string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Err: err}
}

func IsUnavailable(err error) bool { return errorKind(err) == KindUnavailable }
func IsRejected(err error) bool    { return errorKind(err) == KindRejected }
func IsUnsupported(err error) bool { return errorKind(err) == KindUnsupported }

func errorKind(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	// Unknown errors (including context deadline on a provider call) are
	// treated as transient.
	return KindUnavailable
}

// ErrRecordNotFound is returned by the store when a lookup misses.
var ErrRecordNotFound = errors.New("record not found")

// ErrLinkNotFound is returned by the link store when a lookup misses.
var ErrLinkNotFound = errors.New("provider link not found")
