package coach

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presetKeys(presets []Preset) []string {
	keys := make([]string, 0, len(presets))
	for _, p := range presets {
		keys = append(keys, p.Key)
	}
	return keys
}

func TestListPublic_CustomAlwaysLast(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	presets, err := env.presets.ListPublic(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, CustomKey, presets[0].Key)

	env.mustUpsertPreset(t, "sales", UpsertPresetRequest{})
	env.mustUpsertPreset(t, "fitness", UpsertPresetRequest{Enabled: ptr(false)})
	env.mustUpsertPreset(t, "language", UpsertPresetRequest{SortOrder: ptr(0)})

	presets, err = env.presets.ListPublic(ctx, testTenant)
	require.NoError(t, err)
	assert.Equal(t, []string{"language", "sales", CustomKey}, presetKeys(presets))
}

func TestListPublic_OrdersTiesByCreation(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, key := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, env.db.Create(&NichePreset{
			TenantID:  testTenant,
			Key:       key,
			Label:     key,
			Enabled:   true,
			SortOrder: 5,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	presets, err := env.presets.ListPublic(context.Background(), testTenant)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid", CustomKey}, presetKeys(presets))
}

func TestListPublic_TenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	env.mustUpsertPreset(t, "sales", UpsertPresetRequest{})

	presets, err := env.presets.ListPublic(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, []string{CustomKey}, presetKeys(presets))
}

func TestUpsert_CreateThenPartialUpdate(t *testing.T) {
	env := newTestEnv(t)

	first := env.mustUpsertPreset(t, "sales", UpsertPresetRequest{AIContext: ptr("  Cold calls  ")})
	assert.Equal(t, "Sales", first.Label)
	assert.Equal(t, "Cold calls", *first.AIContext)
	assert.True(t, first.Enabled)
	assert.Equal(t, 1, first.SortOrder)

	second := env.mustUpsertPreset(t, "fitness", UpsertPresetRequest{})
	assert.Equal(t, 2, second.SortOrder)

	updated := env.mustUpsertPreset(t, "sales", UpsertPresetRequest{Label: ptr("Sales Calls"), Enabled: ptr(false)})
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "Sales Calls", updated.Label)
	assert.Equal(t, "Cold calls", *updated.AIContext)
	assert.False(t, updated.Enabled)
	assert.Equal(t, 1, updated.SortOrder)

	cleared := env.mustUpsertPreset(t, "sales", UpsertPresetRequest{AIContext: ptr(" ")})
	assert.Nil(t, cleared.AIContext)
}

func TestUpsert_RejectsCustomAndBadKeys(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.presets.Upsert(ctx, testTenant, CustomKey, UpsertPresetRequest{Label: ptr("Mine")})
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = env.presets.Upsert(ctx, testTenant, "Not A Key", UpsertPresetRequest{})
	assert.ErrorIs(t, err, ErrInvalidKey)

	var count int64
	require.NoError(t, env.db.Model(&NichePreset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUpsertPreset(t, "sales", UpsertPresetRequest{})

	assert.ErrorIs(t, env.presets.Delete(ctx, testTenant, CustomKey), ErrReservedKey)
	assert.ErrorIs(t, env.presets.Delete(ctx, testTenant, "fitness"), ErrPresetNotFound)
	assert.ErrorIs(t, env.presets.Delete(ctx, "other", "sales"), ErrPresetNotFound)

	require.NoError(t, env.presets.Delete(ctx, testTenant, "sales"))
	row, err := env.presets.Find(ctx, testTenant, "sales")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestListAdmin_SeedsEmptyTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	entries, err := DefaultCatalog()
	require.NoError(t, err)

	rows, err := env.presets.ListAdmin(ctx, testTenant, true)
	require.NoError(t, err)
	require.Len(t, rows, len(entries))
	for i, row := range rows {
		assert.Equal(t, entries[i].Key, row.Key)
	}

	// A second call must not seed again.
	rows, err = env.presets.ListAdmin(ctx, testTenant, true)
	require.NoError(t, err)
	assert.Len(t, rows, len(entries))
}

func TestListAdmin_NoSeedWhenTenantHasRowsOrOptedOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustUpsertPreset(t, "sales", UpsertPresetRequest{Enabled: ptr(false)})
	rows, err := env.presets.ListAdmin(ctx, testTenant, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = env.presets.ListAdmin(ctx, testTenant, false)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = env.settings.Update(ctx, "quiet", UpdateSettingsRequest{AllowAutoDefaults: ptr(false)})
	require.NoError(t, err)
	rows, err = env.presets.ListAdmin(ctx, "quiet", true)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRestoreDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustUpsertPreset(t, "beekeeping", UpsertPresetRequest{})
	env.mustUpsertPreset(t, "sales", UpsertPresetRequest{Label: ptr("Renamed"), Enabled: ptr(false)})

	rows, err := env.presets.RestoreDefaults(ctx, testTenant)
	require.NoError(t, err)

	entries, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Len(t, rows, len(entries))

	gone, err := env.presets.Find(ctx, testTenant, "beekeeping")
	require.NoError(t, err)
	assert.Nil(t, gone)

	sales, err := env.presets.Find(ctx, testTenant, "sales")
	require.NoError(t, err)
	require.NotNil(t, sales)
	assert.Equal(t, "Sales", sales.Label)
	assert.True(t, sales.Enabled)
}

func TestInsertPreset_ConflictUpdatesStoredRow(t *testing.T) {
	env := newTestEnv(t)

	existing := NichePreset{TenantID: testTenant, Key: "sales", Label: "Old", SortOrder: 1}
	require.NoError(t, env.db.Create(&existing).Error)

	stored, err := insertPreset(env.db, NichePreset{
		TenantID:  testTenant,
		Key:       "sales",
		Label:     "New",
		Enabled:   true,
		SortOrder: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, stored.ID)
	assert.Equal(t, "New", stored.Label)
	assert.True(t, stored.Enabled)
	assert.Equal(t, 4, stored.SortOrder)

	var n int64
	require.NoError(t, env.db.Model(&NichePreset{}).Where("tenant_id = ?", testTenant).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
