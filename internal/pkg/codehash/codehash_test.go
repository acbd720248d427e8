package codehash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, Length)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected symbol %q", r)
		}
	}
}

func TestDigest(t *testing.T) {
	h := NewHasher("pepper")

	d := h.Digest("user-1", "ABC123")
	assert.Len(t, d, 64)
	assert.Equal(t, d, h.Digest("user-1", "ABC123"))
	assert.NotEqual(t, d, h.Digest("user-2", "ABC123"))
	assert.NotEqual(t, d, h.Digest("user-1", "ABC124"))
	assert.NotEqual(t, d, NewHasher("other").Digest("user-1", "ABC123"))
}

func TestNewHasher_LongPepper(t *testing.T) {
	h := NewHasher(strings.Repeat("x", 100))
	assert.NotPanics(t, func() { h.Digest("u", "c") })
}
