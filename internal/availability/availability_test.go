package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSchedule(now time.Time) *StaticSchedule {
	s := NewStaticSchedule(9, 17, 120)
	s.now = func() time.Time { return now }
	return s
}

func TestSlotsForFutureDay(t *testing.T) {
	// Mon Mar 2, 2026
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	s := fixedSchedule(now)

	// Tuesday, full schedule: 9, 11, 1, 3
	tue := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	slots, err := s.SlotsFor(context.Background(), tue)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, "9:00 AM", slots[0].Label)
	assert.Equal(t, "3:00 PM", slots[3].Label)
}

func TestSlotsForSundayClosed(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	s := fixedSchedule(now)

	sun := time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local)
	slots, err := s.SlotsFor(context.Background(), sun)
	require.NoError(t, err)
	assert.Empty(t, slots, "Sunday should have no availability")
}

func TestSlotsForSameDayFiltersPastStarts(t *testing.T) {
	// 10:30 AM: the 9 AM slot is gone and 11 AM is inside the lead window,
	// so the first offerable slot is 1 PM.
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.Local)
	s := fixedSchedule(now)

	slots, err := s.SlotsFor(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "1:00 PM", slots[0].Label)
	assert.Equal(t, "3:00 PM", slots[1].Label)
}

func TestSlotsForSameDayNoneLeft(t *testing.T) {
	now := time.Date(2026, 3, 2, 16, 45, 0, 0, time.Local)
	s := fixedSchedule(now)

	slots, err := s.SlotsFor(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsChronological(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	s := fixedSchedule(now)

	sat := time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local)
	slots, err := s.SlotsFor(context.Background(), sat)
	require.NoError(t, err)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Start.Before(slots[i].Start))
	}
}
