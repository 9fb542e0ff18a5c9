package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ggnexus/nexus"
	"github.com/ggnexus/nexus/httpapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what should I play tonight?", body["message"])
		assert.Equal(t, "session-abc", body["session_id"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"response":   "[MOOD:excited] Have you tried Hades?",
			"mood":       "excited",
			"session_id": "session-abc",
		})
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL)
	reply, err := client.Send(context.Background(), "session-abc", "what should I play tonight?")
	require.NoError(t, err)
	assert.Equal(t, "[MOOD:excited] Have you tried Hades?", reply.Text)
	assert.Equal(t, "excited", reply.MoodHint)
}

func TestSend_AuthorizationHeader(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL, httpapi.WithToken("secret-token"))
	_, err := client.Send(context.Background(), "session-abc", "hi")
	require.NoError(t, err)
}

func TestSend_RateLimited(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "Rate limit exceeded. Please wait a moment."})
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL)
	_, err := client.Send(context.Background(), "session-abc", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, nexus.ErrRateLimited)
	assert.Contains(t, err.Error(), "Rate limit exceeded")
}

func TestSend_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "something broke"})
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL)
	_, err := client.Send(context.Background(), "session-abc", "hi")
	require.Error(t, err)
	assert.NotErrorIs(t, err, nexus.ErrRateLimited)
	assert.Contains(t, err.Error(), "something broke")
}

func TestSend_NonJSONErrorBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL)
	_, err := client.Send(context.Background(), "session-abc", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHistory(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/chat/history/session-abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"session_id": "session-abc",
			"messages": []map[string]string{
				{"role": "user", "content": "I lost again", "timestamp": "2025-06-01T10:30:00.123456"},
				{"role": "assistant", "content": "[MOOD:empathy] Rough one.", "timestamp": "2025-06-01T10:30:02Z"},
			},
		})
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL)
	entries, err := client.History(context.Background(), "session-abc")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, nexus.RoleUser, entries[0].Role)
	assert.Equal(t, "I lost again", entries[0].Content)
	// Backend timestamps carry no timezone; they still parse.
	assert.Equal(t, 2025, entries[0].Timestamp.Year())
	assert.False(t, entries[0].Timestamp.IsZero())

	assert.Equal(t, nexus.RoleAssistant, entries[1].Role)
	assert.Equal(t, "[MOOD:empathy] Rough one.", entries[1].Content)
}

func TestHistory_UnparseableTimestamp(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"session_id": "session-abc",
			"messages": []map[string]string{
				{"role": "user", "content": "hi", "timestamp": "not-a-time"},
			},
		})
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL)
	entries, err := client.History(context.Background(), "session-abc")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Timestamp.IsZero())
}

func TestListSessions(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/sessions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"sessions": []map[string]any{
				{
					"session_id":    "session-b",
					"title":         "ranked climb advice",
					"preview":       "Focus on one role for a week.",
					"message_count": 8,
					"last_time":     "2025-06-02T09:00:00",
				},
				{
					"session_id":    "session-a",
					"title":         "what to play",
					"preview":       "Have you tried Hades?",
					"message_count": 4,
					"last_time":     "2025-06-01T10:30:02",
				},
			},
		})
	}))
	defer srv.Close()

	client := httpapi.New(srv.URL)
	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "session-b", sessions[0].ID)
	assert.Equal(t, "ranked climb advice", sessions[0].Title)
	assert.Equal(t, 8, sessions[0].MessageCount)
	assert.True(t, sessions[0].LastActivity.After(sessions[1].LastActivity))
}

func TestSend_ContextCancelled(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := httpapi.New(srv.URL)
	_, err := client.Send(ctx, "session-abc", "hi")
	assert.Error(t, err)
}
