package nexus_test

import (
	"testing"

	"github.com/ggnexus/nexus"
	"github.com/stretchr/testify/assert"
)

func TestParseMood(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in     string
		want   nexus.Mood
		wantOK bool
	}{
		{"happy", nexus.MoodHappy, true},
		{"EMPATHY", nexus.MoodEmpathy, true},
		{"Proud", nexus.MoodProud, true},
		{"impressed", nexus.MoodImpressed, true},
		{"ecstatic", "", false},
		{"", "", false},
		{"happy ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := nexus.ParseMood(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
