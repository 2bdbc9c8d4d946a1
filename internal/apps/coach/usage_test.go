package coach

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 02:00 in UTC+9 is 17:00 the previous UTC day.
	in := time.Date(2026, 3, 11, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), startOfDayUTC(in))
}

func TestUsageFor_FreeCappedAfterLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	usage, err := env.usage.UsageFor(ctx, testTenant, userID)
	require.NoError(t, err)
	assert.Equal(t, Usage{Plan: PlanFree, Used: 0, Limit: FreeDailyLimit, Remaining: 2}, usage)

	env.addCompletions(t, userID, fixedNow.Add(-time.Hour), fixedNow.Add(-time.Minute))

	usage, err = env.usage.UsageFor(ctx, testTenant, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, usage.Used)
	assert.Equal(t, 0, usage.Remaining)
	assert.True(t, usage.Capped)
}

func TestUsageFor_RemainingNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	env.addCompletions(t, userID, fixedNow, fixedNow, fixedNow)

	usage, err := env.usage.UsageFor(context.Background(), testTenant, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Remaining)
	assert.True(t, usage.Capped)
}

func TestUsageFor_OnlyCountsTodayAndTenant(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	midnight := startOfDayUTC(fixedNow)

	env.addCompletions(t, userID, midnight.Add(-time.Second), midnight.Add(-24*time.Hour), midnight)
	require.NoError(t, env.db.Create(&CompletionEvent{
		TenantID: "other", UserID: userID, NicheKey: "sales", OccurredAt: fixedNow,
	}).Error)

	used, err := env.usage.UsedToday(context.Background(), testTenant, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, used)
}

func TestUsageFor_ProAndOwnerAreUnlimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pro := uuid.New()
	owner := uuid.New()
	env.subs.active[pro] = true
	env.roles.owners[owner] = true

	for _, userID := range []uuid.UUID{pro, owner} {
		env.addCompletions(t, userID, fixedNow, fixedNow, fixedNow)

		usage, err := env.usage.UsageFor(ctx, testTenant, userID)
		require.NoError(t, err)
		assert.Equal(t, PlanPro, usage.Plan)
		assert.True(t, usage.Unlimited)
		assert.False(t, usage.Capped)
		assert.Equal(t, Unlimited, usage.Remaining)
		assert.Equal(t, Unlimited, usage.Limit)
	}
}
