package coach

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectNiche(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	sel, err := env.profiles.CurrentNiche(ctx, userID)
	require.NoError(t, err)
	assert.False(t, sel.Set)

	sel, err = env.profiles.SelectNiche(ctx, userID, "public_speaking", "ignored")
	require.NoError(t, err)
	assert.Equal(t, NicheSelection{Set: true, NicheKey: "public_speaking", LegacyNiche: LegacyPublicSpeaking}, sel)

	_, err = env.profiles.SelectNiche(ctx, userID, CustomKey, "  Chess openings ")
	require.NoError(t, err)

	sel, err = env.profiles.CurrentNiche(ctx, userID)
	require.NoError(t, err)
	assert.True(t, sel.Set)
	assert.Equal(t, CustomKey, sel.NicheKey)
	assert.Equal(t, "Chess openings", sel.CustomNiche)
	assert.Equal(t, LegacyCustom, sel.LegacyNiche)
}

func TestSelectNiche_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.profiles.SelectNiche(ctx, userID, "Sales!", "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = env.profiles.SelectNiche(ctx, userID, CustomKey, "how to run a scam")
	assert.ErrorIs(t, err, ErrContentRejected)

	sel, err := env.profiles.CurrentNiche(ctx, userID)
	require.NoError(t, err)
	assert.False(t, sel.Set)
}

func TestUpsertNicheProfile_PartialPatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	profile, err := env.profiles.UpsertNicheProfile(ctx, testTenant, userID, "drivers_permit", "", Patch{
		FieldState: "Ohio",
		"country":  "US",
	})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Ohio", *profile.State)

	profile, err = env.profiles.UpsertNicheProfile(ctx, testTenant, userID, "drivers_permit", "", Patch{"test_type": "written"})
	require.NoError(t, err)
	assert.Equal(t, "Ohio", *profile.State)
	assert.Equal(t, "US", *profile.Country)
	assert.Equal(t, "written", *profile.TestType)

	profile, err = env.profiles.UpsertNicheProfile(ctx, testTenant, userID, "drivers_permit", "", Patch{"country": nil})
	require.NoError(t, err)
	assert.Nil(t, profile.Country)

	answers, err := env.profiles.Answers(ctx, testTenant, userID, "drivers_permit", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{FieldState: "Ohio", "test_type": "written"}, answers)
}

func TestUpsertNicheProfile_CustomTextIsNormalised(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.profiles.UpsertNicheProfile(ctx, testTenant, userID, CustomKey, "DMV Written Test", Patch{FieldState: "Texas"})
	require.NoError(t, err)

	answers, err := env.profiles.Answers(ctx, testTenant, userID, CustomKey, "  dmv written test ")
	require.NoError(t, err)
	assert.Equal(t, "Texas", answers[FieldState])

	answers, err = env.profiles.Answers(ctx, testTenant, userID, CustomKey, "something else")
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestUpsertNicheProfile_InvalidFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.UpsertNicheProfile(ctx, testTenant, uuid.New(), "sales", "", Patch{"shoe_size": "9"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = env.profiles.UpsertNicheProfile(ctx, testTenant, uuid.New(), "sales", "", Patch{FieldState: 12})
	assert.ErrorIs(t, err, ErrInvalidField)
}
