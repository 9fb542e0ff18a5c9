package bubbletea

var MoodLabel = moodLabel
