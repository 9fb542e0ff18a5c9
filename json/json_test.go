package json_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ggnexus/nexus"
	"github.com/ggnexus/nexus/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession(id string, updated time.Time) nexus.Session {
	base := updated.Add(-5 * time.Minute)
	return nexus.Session{
		ID:        id,
		CreatedAt: base,
		UpdatedAt: updated,
		Messages: []nexus.Message{
			nexus.AssistantMessage{Content: "What's good. What can I help you with?", Mood: nexus.MoodHappy, Timestamp: base},
			nexus.UserMessage{Content: "how do I stop feeding mid lane", Timestamp: base.Add(time.Minute)},
			nexus.AssistantMessage{Content: "Ward up and respect the gank timers.", Mood: nexus.MoodEmpathy, Timestamp: updated},
		},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	want := sampleSession("session-abc", time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))

	data, err := json.MarshalSession(want)
	require.NoError(t, err)

	got, err := json.UnmarshalSession(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshalSession_UnsupportedVersion(t *testing.T) {
	t.Parallel()
	_, err := json.UnmarshalSession([]byte(`{"version": 2, "id": "session-abc"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported envelope version")
}

func TestUnmarshalSession_UnknownRole(t *testing.T) {
	t.Parallel()
	_, err := json.UnmarshalSession([]byte(`{
		"version": 1,
		"id": "session-abc",
		"messages": [{"role": "system", "content": "x"}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown message role")
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "session-abc.json")
	want := sampleSession("session-abc", time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))

	require.NoError(t, json.Save(path, want))

	// No temp file left behind.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := json.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := json.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	older := sampleSession("session-old", time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	newer := sampleSession("session-new", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, json.Save(filepath.Join(dir, "session-old.json"), older))
	require.NoError(t, json.Save(filepath.Join(dir, "session-new.json"), newer))

	// Malformed files are skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600))

	got, err := json.List(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "session-new", got[0].ID)
	assert.Equal(t, "session-old", got[1].ID)
}

func TestList_EmptyDir(t *testing.T) {
	t.Parallel()
	got, err := json.List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	s := sampleSession("session-abc", time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))
	sum := json.Summarize(s)

	assert.Equal(t, "session-abc", sum.ID)
	assert.Equal(t, "how do I stop feeding mid lane", sum.Title)
	assert.Equal(t, "Ward up and respect the gank timers.", sum.Preview)
	assert.Equal(t, 3, sum.MessageCount)
	assert.Equal(t, s.UpdatedAt, sum.LastActivity)
}

func TestSummarize_LongTitleClipped(t *testing.T) {
	t.Parallel()
	long := ""
	for range 30 {
		long += "ranked"
	}
	s := nexus.Session{
		ID:       "session-abc",
		Messages: []nexus.Message{nexus.UserMessage{Content: long, Timestamp: time.Now()}},
	}
	sum := json.Summarize(s)
	assert.Len(t, []rune(sum.Title), 80)
	assert.Equal(t, '…', []rune(sum.Title)[79])
}

func TestSummarize_NoUserMessage(t *testing.T) {
	t.Parallel()
	s := nexus.Session{
		ID: "session-abc",
		Messages: []nexus.Message{
			nexus.AssistantMessage{Content: "Welcome!", Mood: nexus.MoodHappy, Timestamp: time.Now()},
		},
	}
	sum := json.Summarize(s)
	assert.Equal(t, "New conversation", sum.Title)
	assert.Equal(t, "Welcome!", sum.Preview)
}
