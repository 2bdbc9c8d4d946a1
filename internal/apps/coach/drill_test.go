package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanFor_Table(t *testing.T) {
	tests := []struct {
		in       string
		mode     string
		target   int
		chunk    int
		stopRule string
	}{
		{"checklist", ModeChecklist, 1, 1, "fixed"},
		{"A", ModeChecklist, 1, 1, "fixed"},
		{"test", ModeTest, 20, 10, "mastery_2_sets_80"},
		{"b", ModeTest, 20, 10, "mastery_2_sets_80"},
		{"Coaching", ModeCoaching, 6, 2, "user_stop"},
		{"C", ModeCoaching, 6, 2, "user_stop"},
		{" walkthrough ", ModeWalkthrough, 3, 1, "scenario_complete"},
		{"D", ModeWalkthrough, 3, 1, "scenario_complete"},
		{"", ModeTest, 10, 5, "fixed"},
		{"E", ModeTest, 10, 5, "fixed"},
		{"flashcards", ModeTest, 10, 5, "fixed"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			plan := PlanFor(tt.in)
			assert.Equal(t, tt.mode, plan.Mode)
			assert.Equal(t, tt.target, plan.TargetCount)
			assert.Equal(t, tt.chunk, plan.ChunkSize)
			assert.Equal(t, tt.stopRule, plan.StopRule)
			assert.NotEmpty(t, plan.Rationale)
		})
	}
}

func TestPlanFor_IsTotal(t *testing.T) {
	modes := map[string]bool{ModeChecklist: true, ModeTest: true, ModeCoaching: true, ModeWalkthrough: true}
	for _, in := range []string{"", " ", "Z", "??", "checklist!", "ä", "TEST", "walk through"} {
		plan := PlanFor(in)
		assert.True(t, modes[plan.Mode], "unexpected mode %q for %q", plan.Mode, in)
		assert.Positive(t, plan.TargetCount)
		assert.Positive(t, plan.ChunkSize)
	}
}

func TestDrillPlan_AsMap(t *testing.T) {
	m := PlanFor("B").AsMap()
	assert.Equal(t, "test", m["mode"])
	assert.Equal(t, 20, m["target_count"])
	assert.Equal(t, "mastery_2_sets_80", m["stop_rule"])
}
