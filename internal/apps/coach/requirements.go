package coach

import "strings"

// RequiredField is a clarifying question that must be answered before generation.
type RequiredField struct {
	Key         string `json:"key"`
	Question    string `json:"question"`
	Placeholder string `json:"placeholder,omitempty"`
}

const FieldState = "state"

var stateField = RequiredField{
	Key:         FieldState,
	Question:    "Which state are you preparing for?",
	Placeholder: "e.g. California",
}

// Phrases whose rules differ by jurisdiction. Keep this list narrow: a missed
// match costs less than an unneeded question.
var jurisdictionPhrases = []string{
	"dmv",
	"permit test",
	"learner's permit",
	"learners permit",
	"driver's license",
	"drivers license",
	"driving test",
	"road test",
	"bar exam",
	"real estate license",
	"real estate exam",
	"notary exam",
	"cdl test",
	"insurance license",
}

// RequiredFields inspects the niche text and returns the questions to ask, in order.
func RequiredFields(nicheKey, nicheLabel, aiContext, customNiche string) []RequiredField {
	haystack := strings.ToLower(strings.Join([]string{nicheKey, nicheLabel, aiContext, customNiche}, " "))
	for _, phrase := range jurisdictionPhrases {
		if strings.Contains(haystack, phrase) {
			return []RequiredField{stateField}
		}
	}
	return []RequiredField{}
}

// MissingFields drops the fields that already have a non-empty answer.
func MissingFields(required []RequiredField, answers map[string]string) []RequiredField {
	missing := make([]RequiredField, 0, len(required))
	for _, f := range required {
		if strings.TrimSpace(answers[f.Key]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
