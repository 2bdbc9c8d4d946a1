package services

import (
	"regexp"
)

// BlockedTerms are rejected in user-supplied text that is forwarded to the generation pipeline.
var BlockedTerms = []string{
	"fuck", "fucking", "shit", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot",
	"retard", "tranny",
	"porn", "porno", "nudes",
	"scam", "phishing", "malware",
}

const (
	ReasonInappropriate = "inappropriate_language"
	ReasonURL           = "url_not_allowed"
	ReasonContactInfo   = "contact_info_not_allowed"
	ReasonSpam          = "spam_detected"
)

// ModerationService screens free text before it is stored or composed into prompts.
// Patterns are compiled once at construction and are read-only afterwards.
type ModerationService struct {
	blocked      []*regexp.Regexp
	urlPattern   *regexp.Regexp
	emailPattern *regexp.Regexp
	phonePattern *regexp.Regexp
}

// maxRepeatRun is the longest run of one repeated character accepted before text counts as spam.
const maxRepeatRun = 5

func NewModerationService() *ModerationService {
	ms := &ModerationService{
		blocked:      make([]*regexp.Regexp, 0, len(BlockedTerms)),
		urlPattern:   regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		emailPattern: regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		phonePattern: regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
	}
	for _, term := range BlockedTerms {
		ms.blocked = append(ms.blocked, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return ms
}

// FilterContent returns (true, "") when text is acceptable, otherwise false and a reason code.
// Empty text is acceptable.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	if text == "" {
		return true, ""
	}
	for _, re := range ms.blocked {
		if re.MatchString(text) {
			return false, ReasonInappropriate
		}
	}
	if ms.urlPattern.MatchString(text) {
		return false, ReasonURL
	}
	if ms.emailPattern.MatchString(text) || ms.phonePattern.MatchString(text) {
		return false, ReasonContactInfo
	}
	if hasRepeatRun(text, maxRepeatRun) {
		return false, ReasonSpam
	}
	return true, ""
}

func (ms *ModerationService) RejectionMessage(reason string) string {
	switch reason {
	case ReasonInappropriate:
		return "The text contains inappropriate language."
	case ReasonURL:
		return "URLs and web links are not allowed."
	case ReasonContactInfo:
		return "Contact information is not allowed."
	case ReasonSpam:
		return "The text appears to be spam."
	}
	return "The text does not meet our content guidelines."
}

func hasRepeatRun(text string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run > limit {
			return true
		}
	}
	return false
}
