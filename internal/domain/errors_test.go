package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(NewValidation("missing field")))
	assert.Equal(t, CodeNotFound, CodeOf(NewNotFound("chatroom %d does not exist", 7)))
	assert.Equal(t, CodeInvalidOperation, CodeOf(NewInvalidOperation("nope")))
	assert.Equal(t, CodeUnauthorized, CodeOf(NewUnauthorized("bad token", nil)))

	// Unclassified errors fall back to persistence.
	assert.Equal(t, CodePersistence, CodeOf(errors.New("disk on fire")))
}

func TestCodeOfWrapped(t *testing.T) {
	inner := NewNotFound("chatroom 7 does not exist")
	wrapped := fmt.Errorf("loading room: %w", inner)
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestErrorCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistence("failed to append message", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to append message")
	assert.Contains(t, err.Error(), "connection refused")
}
