package nexus

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // User message accent
	BotName int // Companion name and header accents
	MoodTag int // Mood label in the status line
	Error   int // Failure messages
	Muted   int // Status bar, placeholders, timestamps
	CodeBg  int // Code block background
	Accent  int // Headings, emphasis, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		BotName: 1,
		MoodTag: 5,
		Error:   1,
		Muted:   8,
		CodeBg:  0,
		Accent:  5,
	}
}
