package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailWrites(t *testing.T) {
	s := NewWith(map[string]string{"k": "v"})
	s.FailWrites = true

	require.ErrorIs(t, s.Set("k", "w"), ErrWriteFailed)
	require.ErrorIs(t, s.Remove("k"), ErrWriteFailed)

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFailReads(t *testing.T) {
	s := NewWith(map[string]string{"k": "v"})
	s.FailReads = true
	_, ok, err := s.Get("k")
	require.ErrorIs(t, err, ErrReadFailed)
	assert.False(t, ok)

	s.FailReads = false
	v, _, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
