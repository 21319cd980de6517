package store

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Room codes avoid 0/O/1/I so they survive being read aloud.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6

	maxRoomCodeAttempts = 100
)

var (
	codeRandMu sync.Mutex
	codeRand   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func randomRoomCode() string {
	codeRandMu.Lock()
	defer codeRandMu.Unlock()

	var sb strings.Builder
	sb.Grow(roomCodeLength)
	for i := 0; i < roomCodeLength; i++ {
		sb.WriteByte(roomCodeAlphabet[codeRand.Intn(len(roomCodeAlphabet))])
	}
	return sb.String()
}
