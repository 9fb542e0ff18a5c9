package nexus

import (
	"regexp"
	"strings"
)

// classifyRules is an ordered priority list. The first matching rule
// wins and later rules are not consulted, so an input containing both
// frustrated and celebratory vocabulary always classifies as empathy.
var classifyRules = []struct {
	mood    Mood
	pattern *regexp.Regexp
}{
	{MoodEmpathy, regexp.MustCompile(`lost|lose|tilted|frustrated|stuck|bad|hate|suck|died|feed|angry|sad`)},
	{MoodHappy, regexp.MustCompile(`won|win|clutch|carry|rank up|promoted|mvp|ace|penta|amazing|great|awesome|nice`)},
	{MoodExcited, regexp.MustCompile(`recommend|suggest|what should|new game|try|discover|looking for|best|which`)},
}

// Classify infers an approximate mood from free text using keyword
// rules, for use when no structured mood signal is present. It is
// total: input that matches no rule maps to MoodIdle.
func Classify(text string) Mood {
	lower := strings.ToLower(text)
	for _, rule := range classifyRules {
		if rule.pattern.MatchString(lower) {
			return rule.mood
		}
	}
	return MoodIdle
}
