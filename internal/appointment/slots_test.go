package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots_FullDay(t *testing.T) {
	slots, err := GenerateSlots("09:00", "17:00", 30*time.Minute)
	require.NoError(t, err)

	assert.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "16:30", slots[len(slots)-1])
}

func TestGenerateSlots_PartialTrailingWindowDropped(t *testing.T) {
	slots, err := GenerateSlots("09:00", "09:50", 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00"}, slots)
}

func TestGenerateSlots_HourDuration(t *testing.T) {
	slots, err := GenerateSlots("09:00", "12:00", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slots)
}

func TestGenerateSlots_WindowShorterThanDuration(t *testing.T) {
	slots, err := GenerateSlots("09:00", "09:15", 30*time.Minute)
	require.NoError(t, err)

	assert.Empty(t, slots)
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	_, err := GenerateSlots("nine", "17:00", 30*time.Minute)
	assert.Error(t, err)

	_, err = GenerateSlots("09:00", "late", 30*time.Minute)
	assert.Error(t, err)

	_, err = GenerateSlots("09:00", "17:00", 0)
	assert.Error(t, err)
}

func TestFreeSlots(t *testing.T) {
	candidates := []string{"09:00", "09:30", "10:00", "10:30"}

	free := FreeSlots(candidates, []string{"09:30", "10:30"})
	assert.Equal(t, []string{"09:00", "10:00"}, free)

	free = FreeSlots(candidates, nil)
	assert.Equal(t, candidates, free)

	free = FreeSlots(candidates, candidates)
	assert.Empty(t, free)
}

func TestWeekdayName(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "monday", WeekdayName(monday))
	assert.Equal(t, "sunday", WeekdayName(monday.AddDate(0, 0, 6)))
}

func TestSlotInstant(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	at, err := SlotInstant(date, "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC), at)

	_, err = SlotInstant(date, "2:30pm")
	assert.Error(t, err)
}
