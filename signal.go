package nexus

import (
	"regexp"
	"strings"
)

// moodTagPattern matches the [MOOD:<value>] control tag anywhere in
// text, along with any whitespace that follows it. The keyword is
// case-insensitive; the value is validated separately against the
// vocabulary.
var moodTagPattern = regexp.MustCompile(`(?i)\[MOOD:(\w+)\]\s*`)

// ExtractMood parses the structured mood tag out of a raw assistant
// response. The tag is authoritative only when it appears at the very
// start of the text and its value is in the vocabulary; an unrecognized
// value counts as no signal. Every occurrence of the tag pattern is
// stripped from the returned text regardless of validity, so control
// tags never reach display. The zero Mood means no valid tag was found.
//
// ExtractMood is a pure function: parsing already-clean text returns
// the text unchanged with no mood.
func ExtractMood(raw string) (Mood, string) {
	var mood Mood
	if loc := moodTagPattern.FindStringSubmatchIndex(raw); loc != nil && loc[0] == 0 {
		if parsed, ok := ParseMood(raw[loc[2]:loc[3]]); ok {
			mood = parsed
		}
	}
	text := strings.TrimSpace(moodTagPattern.ReplaceAllString(raw, ""))
	return mood, text
}
