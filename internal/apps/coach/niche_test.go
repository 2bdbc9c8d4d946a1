package coach

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("public_speaking"))
	assert.NoError(t, ValidateKey("drivers-permit-2"))
	assert.ErrorIs(t, ValidateKey(CustomKey), ErrReservedKey)
	assert.ErrorIs(t, ValidateKey(""), ErrInvalidKey)
	assert.ErrorIs(t, ValidateKey("Sales"), ErrInvalidKey)
	assert.ErrorIs(t, ValidateKey("sales team"), ErrInvalidKey)
}

func TestAlwaysCustomPreset(t *testing.T) {
	p := AlwaysCustomPreset()
	assert.Equal(t, CustomKey, p.Key)
	assert.Equal(t, "Custom", p.Label)
	assert.True(t, p.Enabled)
	assert.True(t, p.Custom)
	assert.Equal(t, math.MaxInt32, p.SortOrder)
	assert.Empty(t, p.AIContext)
}

func TestReferenceFor(t *testing.T) {
	assert.IsType(t, AlwaysCustom{}, referenceFor(nil))
	assert.IsType(t, AlwaysCustom{}, referenceFor(&NichePreset{Key: "sales", Enabled: false}))

	ref := referenceFor(&NichePreset{Key: "sales", Label: "Sales", AIContext: ptr("  pitch  "), Enabled: true})
	assert.IsType(t, StoredPreset{}, ref)
	assert.Equal(t, "sales", ref.Key())
	assert.Equal(t, "pitch", ref.Context())
}

func TestLegacyNicheFor(t *testing.T) {
	assert.Equal(t, LegacyTrading, LegacyNicheFor("trading"))
	assert.Equal(t, LegacyPublicSpeaking, LegacyNicheFor("public_speaking"))
	assert.Equal(t, LegacyCustom, LegacyNicheFor("custom"))
	assert.Equal(t, LegacyCustom, LegacyNicheFor("beekeeping"))
}

func TestLabelFromKey(t *testing.T) {
	assert.Equal(t, "Public Speaking", labelFromKey("public_speaking"))
	assert.Equal(t, "Real Estate Exam", labelFromKey("real-estate-exam"))
}
