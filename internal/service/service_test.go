package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := newRoomCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(roomCodeAlphabet, r), "unexpected rune %q in %s", r, code)
		}
		seen[code] = true
	}
	// 50 identical draws would point at a broken random source.
	assert.Greater(t, len(seen), 1)
}

func TestParseMaterials(t *testing.T) {
	m, err := parseMaterials(`{"tea":1,"milk":2}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"tea": 1, "milk": 2}, m)

	m, err = parseMaterials("")
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = parseMaterials("{not json")
	assert.Error(t, err)
}
