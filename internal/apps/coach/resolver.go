package coach

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Where the composed label and context came from.
const (
	SourcePreset   = "preset"
	SourceOverride = "override"
	SourceCustom   = "custom"
	SourceDefault  = "default"
)

// ComposedContext is the niche context handed to the generation pipeline.
type ComposedContext struct {
	NicheKey     string `json:"niche_key"`
	Label        string `json:"label"`
	Context      string `json:"context"`
	NicheContext string `json:"niche_context"`
	Source       string `json:"source"`
}

type Resolver struct {
	presets  *PresetService
	settings *SettingsService
}

func NewResolver(presets *PresetService, settings *SettingsService) *Resolver {
	return &Resolver{presets: presets, settings: settings}
}

// Resolve merges creator, niche and user text into one context. A missing or
// disabled preset is not an error; only store failures are.
func (r *Resolver) Resolve(ctx context.Context, tenantID, nicheKey, customNiche string) (ComposedContext, error) {
	ctx, span := tracer.Start(ctx, "coach.Resolver.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("tenant_id", tenantID), attribute.String("niche_key", nicheKey))

	var (
		global   string
		preset   *NichePreset
		override *CreatorNicheContext
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		global, err = r.settings.globalContext(gctx, tenantID)
		return err
	})
	if nicheKey != CustomKey {
		g.Go(func() error {
			var err error
			preset, err = r.presets.Find(gctx, tenantID, nicheKey)
			return err
		})
	}
	g.Go(func() error {
		var err error
		override, err = r.settings.NicheContext(gctx, tenantID, nicheKey)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return ComposedContext{}, err
	}

	composed := compose(referenceFor(preset), override, global, nicheKey, customNiche)
	span.SetAttributes(attribute.String("source", composed.Source))
	return composed, nil
}

// referenceFor maps a preset lookup to the niche it stands for.
func referenceFor(row *NichePreset) NicheReference {
	if row == nil || !row.Enabled {
		return AlwaysCustom{}
	}
	return StoredPreset{Row: *row}
}

func compose(ref NicheReference, override *CreatorNicheContext, global, nicheKey, customNiche string) ComposedContext {
	label, nicheContext := ref.Label(), ref.Context()
	source := SourcePreset
	if _, ok := ref.(AlwaysCustom); ok {
		source = SourceCustom
	}

	overrideLabel := false
	if override != nil {
		if override.Label != nil && strings.TrimSpace(*override.Label) != "" {
			label = strings.TrimSpace(*override.Label)
			overrideLabel = true
			source = SourceOverride
		}
		if override.Context != nil && strings.TrimSpace(*override.Context) != "" {
			nicheContext = strings.TrimSpace(*override.Context)
			source = SourceOverride
		}
	}

	customNiche = strings.TrimSpace(customNiche)
	isCustom := nicheKey == CustomKey
	if isCustom && !overrideLabel && customNiche != "" {
		label = customNiche
	}

	var segments []string
	if global != "" {
		segments = append(segments, "Creator context:\n"+global)
	}
	if nicheContext != "" {
		segments = append(segments, fmt.Sprintf("Niche context (%s):\n%s", label, nicheContext))
	}
	if isCustom && customNiche != "" {
		segments = append(segments, "User niche:\n"+customNiche)
	}

	composed := ComposedContext{
		NicheKey:     nicheKey,
		Label:        label,
		NicheContext: nicheContext,
		Source:       source,
	}
	if len(segments) == 0 {
		composed.Context = DefaultContext
		composed.Source = SourceDefault
		return composed
	}
	composed.Context = strings.Join(segments, "\n\n")
	return composed
}
