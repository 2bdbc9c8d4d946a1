package coach

import (
	"math"
	"regexp"
	"strings"
)

// CustomKey is the reserved key of the always-present custom niche.
const CustomKey = "custom"

const (
	customLabel = "Custom"

	// DefaultContext is used when no creator, niche or user text applies.
	DefaultContext = "General skill practice. Keep drills concrete, short and focused on the user's stated struggle."
)

var nicheKeyPattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateKey rejects keys outside the allowed pattern and the reserved custom key.
func ValidateKey(key string) error {
	if key == CustomKey {
		return ErrReservedKey
	}
	if !nicheKeyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}

// validSelectionKey accepts any stored-preset key plus custom.
func validSelectionKey(key string) bool {
	return key == CustomKey || nicheKeyPattern.MatchString(key)
}

// Preset is the public view of a niche, stored or synthesized.
type Preset struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	AIContext string `json:"ai_context"`
	Enabled   bool   `json:"enabled"`
	SortOrder int    `json:"sort_order"`
	Custom    bool   `json:"custom"`
}

// NicheReference is either a stored preset row or the synthesized custom niche.
type NicheReference interface {
	Key() string
	Label() string
	Context() string
	isNicheReference()
}

// StoredPreset wraps an enabled preset row.
type StoredPreset struct {
	Row NichePreset
}

func (s StoredPreset) Key() string   { return s.Row.Key }
func (s StoredPreset) Label() string { return s.Row.Label }

func (s StoredPreset) Context() string {
	if s.Row.AIContext == nil {
		return ""
	}
	return strings.TrimSpace(*s.Row.AIContext)
}

func (StoredPreset) isNicheReference() {}

// AlwaysCustom is never persisted and can't be edited, disabled or deleted.
type AlwaysCustom struct{}

func (AlwaysCustom) Key() string       { return CustomKey }
func (AlwaysCustom) Label() string     { return customLabel }
func (AlwaysCustom) Context() string   { return "" }
func (AlwaysCustom) isNicheReference() {}

// AlwaysCustomPreset is the public listing row for the custom niche.
func AlwaysCustomPreset() Preset {
	return Preset{
		Key:       CustomKey,
		Label:     customLabel,
		Enabled:   true,
		SortOrder: math.MaxInt32,
		Custom:    true,
	}
}

func publicPreset(row NichePreset) Preset {
	p := Preset{
		Key:       row.Key,
		Label:     row.Label,
		Enabled:   row.Enabled,
		SortOrder: row.SortOrder,
	}
	if row.AIContext != nil {
		p.AIContext = *row.AIContext
	}
	return p
}

// Legacy niche values of the old fixed taxonomy.
const (
	LegacyTrading        = "TRADING"
	LegacySales          = "SALES"
	LegacyFitness        = "FITNESS"
	LegacyPublicSpeaking = "PUBLIC_SPEAKING"
	LegacyLanguage       = "LANGUAGE"
	LegacyCustom         = "CUSTOM"
)

var legacyNiches = map[string]string{
	"trading":         LegacyTrading,
	"investing":       LegacyTrading,
	"sales":           LegacySales,
	"fitness":         LegacyFitness,
	"public_speaking": LegacyPublicSpeaking,
	"language":        LegacyLanguage,
}

// LegacyNicheFor derives the old enum from a niche key. Only written for
// export; nothing in this package branches on it.
func LegacyNicheFor(key string) string {
	if v, ok := legacyNiches[key]; ok {
		return v
	}
	return LegacyCustom
}
