package imagestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	require.Equal(t, 0, store.Len())

	data := []byte{0xFF, 0xD8, 0xFF}
	require.NoError(t, store.Put(context.Background(), "uploads/a.jpg", data, "image/jpeg"))
	require.Equal(t, 1, store.Len())

	data[0] = 0x00
	got, ok := store.Get("uploads/a.jpg")
	require.True(t, ok)
	require.Equal(t, byte(0xFF), got[0])

	_, ok = store.Get("missing")
	require.False(t, ok)
}
