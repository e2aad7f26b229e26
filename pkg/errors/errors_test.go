package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorPassesTypedErrors(t *testing.T) {
	nf := Clone(ErrNotFound, "package not found")
	wrapped := fmt.Errorf("handler: %w", nf)

	got := FromError(wrapped)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "package not found", got.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, ErrInternal.Message, got.Message)
	assert.EqualError(t, got.Unwrap(), "connection refused")
}

func TestIsMatchesByCode(t *testing.T) {
	err := Clone(ErrConflict, "net id already used")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Nil(t, FromError(nil))
}
