package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderErrorClassification(t *testing.T) {
	unavailable := NewProviderError(KindUnavailable, "google", errors.New("503"))
	rejected := NewProviderError(KindRejected, "google", errors.New("400"))
	unsupported := NewProviderError(KindUnsupported, "ics", errors.New("read-only"))

	assert.True(t, IsUnavailable(unavailable))
	assert.True(t, IsRejected(rejected))
	assert.True(t, IsUnsupported(unsupported))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("push create: %w", rejected)
	assert.True(t, IsRejected(wrapped))
	assert.False(t, IsUnavailable(wrapped))
}

func TestUnknownErrorsAreTransient(t *testing.T) {
	err := errors.New("connection reset by peer")

	assert.True(t, IsUnavailable(err))
	assert.False(t, IsRejected(err))
	assert.False(t, IsUnsupported(err))
}
