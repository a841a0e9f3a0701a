package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEphemeral_EvictsAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(epoch)
	m := NewMemoryEphemeral(clock)

	require.NoError(t, m.Set(ctx, sampleRecord(), time.Hour))

	got, ok, err := m.Get(ctx, "AMZ651")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleRecord(), got)

	clock.Advance(59 * time.Minute)
	assert.Equal(t, 1, m.Len())

	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryEphemeral_ResetReplacesTimer(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(epoch)
	m := NewMemoryEphemeral(clock)

	require.NoError(t, m.Set(ctx, sampleRecord(), time.Hour))

	later := sampleRecord()
	later.ExpiresAt = later.ExpiresAt.Add(time.Hour)
	require.NoError(t, m.Set(ctx, later, 2*time.Hour))

	clock.Advance(90 * time.Minute)

	// Give a stray callback from the first timer a chance to run.
	time.Sleep(10 * time.Millisecond)

	got, ok, err := m.Get(ctx, "AMZ651")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, later, got)
}

func TestMemoryEphemeral_NonPositiveTTLDeletes(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryEphemeral(clockwork.NewFakeClockAt(epoch))

	require.NoError(t, m.Set(ctx, sampleRecord(), time.Hour))
	require.NoError(t, m.Set(ctx, sampleRecord(), 0))

	_, ok, err := m.Get(ctx, "AMZ651")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryEphemeral_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryEphemeral(clockwork.NewFakeClockAt(epoch))

	require.NoError(t, m.Set(ctx, sampleRecord(), time.Hour))
	require.NoError(t, m.Delete(ctx, "AMZ651"))
	require.NoError(t, m.Delete(ctx, "AMZ651"))

	assert.Equal(t, 0, m.Len())
}
