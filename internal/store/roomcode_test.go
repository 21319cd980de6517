package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := randomRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(roomCodeAlphabet, c),
				"code %q contains %q outside alphabet", code, c)
		}
		seen[code] = true
	}
	// 32^6 codes; 1000 draws colliding down to under 990 distinct
	// would indicate a broken generator, not bad luck.
	assert.Greater(t, len(seen), 990)
}

func TestRoomCodeAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1I" {
		assert.False(t, strings.ContainsRune(roomCodeAlphabet, c))
	}
}
