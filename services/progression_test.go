package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProgressRecordIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	first, err := f.progression.EnsureProgressRecord(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentLevel)
	assert.Equal(t, NextLevelXP(1), first.NextLevelXP)
	assert.Zero(t, first.TotalXP)

	second, err := f.progression.EnsureProgressRecord(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAwardXPPersistsLevelUp(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.progression.AwardXP(ctx, "u1", 100, "admin_grant")
	require.NoError(t, err)
	assert.False(t, res.NewLevel)

	res, err = f.progression.AwardXP(ctx, "u1", 60, "admin_grant")
	require.NoError(t, err)
	assert.True(t, res.NewLevel)
	assert.Equal(t, 2, res.Level)

	prog, err := f.progression.GetProgress(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, prog)
	assert.Equal(t, int64(160), prog.TotalXP)
	assert.Equal(t, int64(10), prog.CurrentXP)
	assert.Equal(t, 2, prog.CurrentLevel)
	assert.Equal(t, NextLevelXP(2), prog.NextLevelXP)
}

func TestAwardXPRejectsNonPositive(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.progression.AwardXP(context.Background(), "u1", 0, "noop")
	assert.Error(t, err)
}

func TestAwardXPWithoutRecordIsDroppedWhenAutoCreateOff(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	res, err := f.progression.AwardXP(ctx, "u1", 500, "admin_grant")
	require.NoError(t, err)
	assert.Equal(t, XPResult{}, res)

	prog, err := f.progression.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, prog)
}

func TestTouchActivityStreak(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	day := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	f.progression.now = func() time.Time { return day }

	prog, err := f.progression.TouchActivity(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, prog.StreakDays)

	day = day.Add(5 * time.Hour)
	prog, err = f.progression.TouchActivity(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, prog.StreakDays, "same day does not extend")

	day = day.AddDate(0, 0, 1)
	prog, err = f.progression.TouchActivity(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, prog.StreakDays)

	day = day.AddDate(0, 0, 3)
	prog, err = f.progression.TouchActivity(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, prog.StreakDays, "a gap restarts the streak")
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 5, 10, 0, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 5, 9, 23, 59, 0, 0, time.UTC)
	older := time.Date(2026, 5, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, nextStreak(0, nil, now))
	assert.Equal(t, 6, nextStreak(5, &yesterday, now))
	assert.Equal(t, 1, nextStreak(5, &older, now))
	assert.Equal(t, 5, nextStreak(5, &now, now))
}
