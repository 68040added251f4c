package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ingest-service/pkg/config"
)

func TestBuildFeedsDeterministicOrder(t *testing.T) {
	disabled := false
	cfg := &config.Config{
		RSSFeeds: map[string][]config.FeedConfig{
			config.BackendStealth: {
				{Name: "s1", URL: "https://s1/rss"},
			},
			config.BackendHeadless: {
				{Name: "h1", URL: "https://h1/rss"},
				{Name: "h2", URL: "https://h2/rss", Enabled: &disabled},
			},
		},
	}

	feeds := buildFeeds(cfg)
	require.Len(t, feeds, 3)

	// Backends alphabetically, feeds in listed order.
	assert.Equal(t, "h1", feeds[0].Name)
	assert.Equal(t, config.BackendHeadless, feeds[0].Backend)
	assert.True(t, feeds[0].Enabled)
	assert.Equal(t, "h2", feeds[1].Name)
	assert.False(t, feeds[1].Enabled)
	assert.Equal(t, "s1", feeds[2].Name)
	assert.Equal(t, config.BackendStealth, feeds[2].Backend)
}

func TestBuildScrapersCoversConfiguredBackends(t *testing.T) {
	cfg := &config.Config{
		RSSFeeds: map[string][]config.FeedConfig{
			config.BackendHeadless: {{Name: "h", URL: "https://h/rss"}},
			config.BackendStealth:  {{Name: "s", URL: "https://s/rss"}},
		},
	}

	scrapers, err := buildScrapers(cfg)
	require.NoError(t, err)
	assert.Contains(t, scrapers, config.BackendHeadless)
	assert.Contains(t, scrapers, config.BackendStealth)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123abcd", shortID("0123abcd-ffff-ffff"))
	assert.Equal(t, "short", shortID("short"))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(nil))
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.NotEmpty(t, formatTime(&ts))
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := newVersionCommand()
	cmd.SetOut(out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), appName)
}
