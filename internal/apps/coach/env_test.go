package coach

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/database/testutil"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testTenant = "acme"

// fixedNow is mid-afternoon UTC so "today" has room on both sides.
var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type fakeRoles struct {
	owners map[uuid.UUID]bool
}

func (f *fakeRoles) CheckRole(_ context.Context, _ string, userID uuid.UUID) (services.RoleInfo, error) {
	if f.owners[userID] {
		return services.RoleInfo{Role: "owner", IsOwner: true, IsAdminOrCreator: true}, nil
	}
	return services.RoleInfo{Role: "member"}, nil
}

type fakeSubs struct {
	active map[uuid.UUID]bool
}

func (f *fakeSubs) HasActiveSubscription(_ context.Context, _ string, userID uuid.UUID) (bool, error) {
	return f.active[userID], nil
}

type testEnv struct {
	db        *gorm.DB
	settings  *SettingsService
	presets   *PresetService
	resolver  *Resolver
	sessions  *SessionService
	profiles  *ProfileService
	usage     *UsageService
	lifecycle *Lifecycle
	roles     *fakeRoles
	subs      *fakeSubs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t, (&Plugin{}).Models()...)

	env := &testEnv{
		db:    db,
		roles: &fakeRoles{owners: map[uuid.UUID]bool{}},
		subs:  &fakeSubs{active: map[uuid.UUID]bool{}},
	}
	env.settings = NewSettingsService(db)
	env.presets = NewPresetService(db, env.settings)
	env.resolver = NewResolver(env.presets, env.settings)
	env.sessions = NewSessionService(db)
	env.profiles = NewProfileService(db, services.NewModerationService())
	env.usage = NewUsageService(db, env.roles, env.subs)
	env.lifecycle = NewLifecycle(db, env.sessions, env.profiles, env.resolver, env.usage)

	clock := func() time.Time { return fixedNow }
	env.sessions.now = clock
	env.usage.now = clock
	env.lifecycle.now = clock
	return env
}

func (e *testEnv) mustUpsertPreset(t *testing.T, key string, req UpsertPresetRequest) *NichePreset {
	t.Helper()
	row, err := e.presets.Upsert(context.Background(), testTenant, key, req)
	require.NoError(t, err)
	return row
}

func (e *testEnv) addCompletions(t *testing.T, userID uuid.UUID, at ...time.Time) {
	t.Helper()
	for _, ts := range at {
		require.NoError(t, e.db.Create(&CompletionEvent{
			TenantID:   testTenant,
			UserID:     userID,
			NicheKey:   "sales",
			OccurredAt: ts,
		}).Error)
	}
}

func ptr[T any](v T) *T { return &v }
