package coach

import "strings"

const (
	ModeChecklist   = "checklist"
	ModeTest        = "test"
	ModeCoaching    = "coaching"
	ModeWalkthrough = "walkthrough"
)

// DrillPlan is the delivery plan handed to the generation pipeline. StopRule
// is an opaque token; mastery is evaluated downstream.
type DrillPlan struct {
	Mode        string `json:"mode"`
	TargetCount int    `json:"target_count"`
	ChunkSize   int    `json:"chunk_size"`
	StopRule    string `json:"stop_rule"`
	Rationale   string `json:"rationale"`
}

var (
	checklistPlan = DrillPlan{
		Mode: ModeChecklist, TargetCount: 1, ChunkSize: 1, StopRule: "fixed",
		Rationale: "User asked for a single actionable checklist.",
	}
	testPlan = DrillPlan{
		Mode: ModeTest, TargetCount: 20, ChunkSize: 10, StopRule: "mastery_2_sets_80",
		Rationale: "User wants to be tested; two sets at 80% count as mastery.",
	}
	coachingPlan = DrillPlan{
		Mode: ModeCoaching, TargetCount: 6, ChunkSize: 2, StopRule: "user_stop",
		Rationale: "User prefers guided coaching and decides when to stop.",
	}
	walkthroughPlan = DrillPlan{
		Mode: ModeWalkthrough, TargetCount: 3, ChunkSize: 1, StopRule: "scenario_complete",
		Rationale: "User wants worked scenarios walked through end to end.",
	}
	defaultPlan = DrillPlan{
		Mode: ModeTest, TargetCount: 10, ChunkSize: 5, StopRule: "fixed",
		Rationale: "No recognised preference; defaulting to a short test.",
	}
)

var drillPlans = map[string]DrillPlan{
	"checklist":   checklistPlan,
	"a":           checklistPlan,
	"test":        testPlan,
	"b":           testPlan,
	"coaching":    coachingPlan,
	"c":           coachingPlan,
	"walkthrough": walkthroughPlan,
	"d":           walkthroughPlan,
}

// PlanFor never fails; unknown preferences get the default plan.
func PlanFor(preference string) DrillPlan {
	if plan, ok := drillPlans[strings.ToLower(strings.TrimSpace(preference))]; ok {
		return plan
	}
	return defaultPlan
}

// AsMap is the shape stored in the session data bag.
func (p DrillPlan) AsMap() map[string]any {
	return map[string]any{
		"mode":         p.Mode,
		"target_count": p.TargetCount,
		"chunk_size":   p.ChunkSize,
		"stop_rule":    p.StopRule,
	}
}
