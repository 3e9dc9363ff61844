package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRunSameDay(t *testing.T) {
	s, err := NewScheduler(nil, []string{"08:00", "18:00"}, "UTC")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	next := s.NextRun(now)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), next)

	now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	next = s.NextRun(now)
	assert.Equal(t, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC), next)
}

func TestNextRunRollsOverToTomorrow(t *testing.T) {
	s, err := NewScheduler(nil, []string{"08:00", "18:00"}, "UTC")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	next := s.NextRun(now)
	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), next)
}

func TestNextRunExactBoundaryGoesToNextSlot(t *testing.T) {
	s, err := NewScheduler(nil, []string{"08:00"}, "UTC")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	next := s.NextRun(now)
	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), next)
}

func TestNewSchedulerValidation(t *testing.T) {
	_, err := NewScheduler(nil, []string{"25:00"}, "UTC")
	assert.Error(t, err)

	_, err = NewScheduler(nil, []string{"08:00"}, "Not/AZone")
	assert.Error(t, err)

	_, err = NewScheduler(nil, nil, "UTC")
	assert.Error(t, err)
}

func TestNextRunRespectsTimezone(t *testing.T) {
	s, err := NewScheduler(nil, []string{"08:00"}, "America/Los_Angeles")
	require.NoError(t, err)

	// 14:00 UTC in March is 07:00 PDT, the 08:00 slot is still ahead
	now := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
	next := s.NextRun(now)
	assert.Equal(t, 8, next.Hour())
	assert.Equal(t, 20, next.Day())
}
