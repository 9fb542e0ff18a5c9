package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ggnexus/nexus/httpapi"
	"github.com/ggnexus/nexus/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransport_NoneConfigured(t *testing.T) {
	t.Parallel()
	_, err := buildTransport(context.Background(), config{}, &profile.Summary{}, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEXUS_API_URL")
}

func TestBuildTransport_PrefersBackend(t *testing.T) {
	t.Parallel()
	cfg := config{APIURL: "http://localhost:5000", GeminiKey: "gk-test"}
	tr, err := buildTransport(context.Background(), cfg, &profile.Summary{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.IsType(t, &httpapi.Client{}, tr)
}

func TestDefaultStateDir(t *testing.T) {
	t.Parallel()
	dir := defaultStateDir()
	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, ".nexus")
}
