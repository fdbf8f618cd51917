// Package system provides the process-level sources the services inject:
// wall clock, randomness and identifier generation.
package system

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// Clock reads the wall clock.
type Clock struct{}

// Now returns the current time in UTC.
func (Clock) Now() time.Time { return time.Now().UTC() }

// Random draws from math/rand.
type Random struct{}

// Intn returns a uniform integer in [0, n).
func (Random) Intn(n int) int { return rand.Intn(n) }

// UUIDGenerator produces random (v4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

var (
	_ secondary.Clock       = Clock{}
	_ secondary.Random      = Random{}
	_ secondary.IDGenerator = UUIDGenerator{}
)
