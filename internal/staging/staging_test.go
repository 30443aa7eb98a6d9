// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package staging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"file":   fs,
		"memory": NewMemStore(),
	}
}

func TestWriteOnceIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			created, err := s.WriteOnce("12345", []byte(`{"a":1}`))
			require.NoError(t, err)
			assert.True(t, created)

			created, err = s.WriteOnce("12345", []byte(`{"a":2}`))
			require.NoError(t, err)
			assert.False(t, created, "second write must report already existed")

			// First write wins.
			data, err := s.Read("12345")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(data))
		})
	}
}

func TestReadMissingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read("nope")
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestKeysSorted(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write("b_1", []byte("{}")))
			require.NoError(t, s.Write("a_0", []byte("{}")))
			require.NoError(t, s.Write("a_10", []byte("{}")))

			keys, err := s.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"a_0", "a_10", "b_1"}, keys)
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type rec struct {
		Company string `json:"company"`
		Index   int    `json:"index"`
	}
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WriteJSON(s, "k", rec{Company: "Acme", Index: 2}))

			var got rec
			require.NoError(t, ReadJSON(s, "k", &got))
			assert.Equal(t, rec{Company: "Acme", Index: 2}, got)
		})
	}
}

func TestFileStoreWriteReplaces(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Write("k", []byte(`1`)))
	require.NoError(t, fs.Write("k", []byte(`2`)))

	data, err := fs.Read("k")
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))

	// Temp files must not leak into the key listing.
	keys, err := fs.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}
