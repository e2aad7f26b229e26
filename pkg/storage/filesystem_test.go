package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	written, err := store.SaveStream("ord-1/receipt.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.EqualValues(t, 8, written)

	file, err := store.Open("ord-1/receipt.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(file)
	require.NoError(t, file.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, store.Delete("ord-1/receipt.pdf"))
	require.NoError(t, store.Delete("ord-1/receipt.pdf"))
	_, err = store.Open("ord-1/receipt.pdf")
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../secret", "/etc/passwd", "a/../../b"} {
		_, err := store.SaveStream(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
}
