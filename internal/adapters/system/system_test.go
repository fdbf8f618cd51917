package system_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/skillmatrix/internal/adapters/system"
)

func TestClock_UTC(t *testing.T) {
	now := system.Clock{}.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestRandom_Range(t *testing.T) {
	r := system.Random{}
	for i := 0; i < 100; i++ {
		v := r.Intn(3)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 3)
	}
}

func TestUUIDGenerator_Unique(t *testing.T) {
	g := system.UUIDGenerator{}
	a, b := g.NewID(), g.NewID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}
