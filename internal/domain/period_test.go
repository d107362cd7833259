package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestClassify_Daily(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		last *time.Time
		want Classification
	}{
		{"no previous completion", nil, FirstEver},
		{"earlier the same day", ptrTime(time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC)), Duplicate},
		{"later the same day", ptrTime(time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)), Duplicate},
		{"yesterday morning", ptrTime(time.Date(2024, 6, 14, 6, 0, 0, 0, time.UTC)), Continuation},
		{"yesterday last second", ptrTime(time.Date(2024, 6, 14, 23, 59, 59, 0, time.UTC)), Continuation},
		{"two days ago", ptrTime(time.Date(2024, 6, 13, 23, 59, 59, 0, time.UTC)), Reset},
		{"three periods ago", ptrTime(time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)), Reset},
		{"last year", ptrTime(time.Date(2023, 6, 14, 12, 0, 0, 0, time.UTC)), Reset},
		{"tomorrow (clock skew)", ptrTime(time.Date(2024, 6, 16, 1, 0, 0, 0, time.UTC)), Duplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(CadenceDaily, tt.last, now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_UsesReferenceTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-06-14 16:00 UTC is already 2024-06-15 01:00 in Tokyo.
	last := time.Date(2024, 6, 14, 16, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)

	inUTC, err := Classify(CadenceDaily, &last, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Duplicate, inUTC)

	// In Tokyo both instants fall on June 15 as well.
	inTokyo, err := Classify(CadenceDaily, &last, now, tokyo)
	require.NoError(t, err)
	assert.Equal(t, Duplicate, inTokyo)

	// 2024-06-14 14:00 UTC is June 14 23:00 in Tokyo, the day before.
	earlier := time.Date(2024, 6, 14, 14, 0, 0, 0, time.UTC)
	inTokyo, err = Classify(CadenceDaily, &earlier, now, tokyo)
	require.NoError(t, err)
	assert.Equal(t, Continuation, inTokyo)

	inUTC, err = Classify(CadenceDaily, &earlier, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Duplicate, inUTC)
}

func TestClassify_AcrossDSTTransition(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// March 10 2024 is a 23-hour day in New York.
	last := time.Date(2024, 3, 10, 0, 30, 0, 0, ny)
	now := time.Date(2024, 3, 11, 0, 15, 0, 0, ny)

	got, err := Classify(CadenceDaily, &last, now, ny)
	require.NoError(t, err)
	assert.Equal(t, Continuation, got)

	// November 3 2024 is a 25-hour day.
	last = time.Date(2024, 11, 3, 23, 45, 0, 0, ny)
	now = time.Date(2024, 11, 5, 0, 5, 0, 0, ny)
	got, err = Classify(CadenceDaily, &last, now, ny)
	require.NoError(t, err)
	assert.Equal(t, Reset, got)
}

func TestClassify_NilLocationIsUTC(t *testing.T) {
	last := time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC)

	got, err := Classify(CadenceDaily, &last, now, nil)
	require.NoError(t, err)
	assert.Equal(t, Continuation, got)
}

func TestClassify_UnsupportedCadence(t *testing.T) {
	_, err := Classify(Cadence("weekly"), nil, time.Now(), time.UTC)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedCadence)
}

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "first_ever", FirstEver.String())
	assert.Equal(t, "duplicate", Duplicate.String())
	assert.Equal(t, "continuation", Continuation.String())
	assert.Equal(t, "reset", Reset.String())
	assert.Equal(t, "classification(42)", Classification(42).String())
}

func TestCadence_IsValid(t *testing.T) {
	assert.True(t, CadenceDaily.IsValid())
	assert.False(t, Cadence("").IsValid())
	assert.False(t, Cadence("Daily").IsValid())
	assert.False(t, Cadence("weekly").IsValid())
}
