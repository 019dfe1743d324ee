package helpers

import (
	"math/rand"
	"time"
)

// RandUnix returns generator seeded with current time, for randomized tests.
func RandUnix() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
