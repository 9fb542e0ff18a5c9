package nexus

import "strings"

// Mood is a closed-vocabulary label for the companion's displayed
// emotional tone. It drives presentation only; values outside the
// vocabulary are rejected at the parsing boundary.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodEmpathy    Mood = "empathy"
	MoodExcited    Mood = "excited"
	MoodThinking   Mood = "thinking"
	MoodCurious    Mood = "curious"
	MoodProud      Mood = "proud"
	MoodFrustrated Mood = "frustrated"
	MoodIdle       Mood = "idle"
	MoodPlayful    Mood = "playful"
	MoodIntense    Mood = "intense"
	MoodSupportive Mood = "supportive"
	MoodImpressed  Mood = "impressed"
)

var moods = map[Mood]bool{
	MoodHappy:      true,
	MoodEmpathy:    true,
	MoodExcited:    true,
	MoodThinking:   true,
	MoodCurious:    true,
	MoodProud:      true,
	MoodFrustrated: true,
	MoodIdle:       true,
	MoodPlayful:    true,
	MoodIntense:    true,
	MoodSupportive: true,
	MoodImpressed:  true,
}

// ParseMood validates a candidate mood value against the vocabulary,
// case-insensitively. The second return value reports whether the
// value was recognized.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(s))
	return m, moods[m]
}
