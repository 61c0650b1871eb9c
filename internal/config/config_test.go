package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DUR", "90s")

	assert.Equal(t, "value", GetEnvString("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnvString("TEST_UNSET", "fallback"))
	assert.Equal(t, 42, GetEnvInt("TEST_INT", 7))
	assert.True(t, GetEnvBool("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DUR", time.Second))
}

func TestGetEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("TEST_INT", "many")
	t.Setenv("TEST_BOOL", "yep")
	t.Setenv("TEST_DUR", "soon")

	assert.Equal(t, 7, GetEnvInt("TEST_INT", 7))
	assert.False(t, GetEnvBool("TEST_BOOL", false))
	assert.Equal(t, time.Second, GetEnvDuration("TEST_DUR", time.Second))
}

func TestLoad_OpenRouterRequiresKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

func TestLoad_WebhookRequiredUnlessDryRun(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "noop")
	t.Setenv("SLACK_WEBHOOK_URL", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("DRY_RUN", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
}

func TestLoad_FullConfiguration(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")
	t.Setenv("LLM_CALLS_PER_MINUTE", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, cfg.Provider)
	assert.Equal(t, 10, cfg.LLMCallsPerMinute)
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "bard")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFeeds_Defaults(t *testing.T) {
	feeds, err := LoadFeeds("")
	require.NoError(t, err)
	require.NotEmpty(t, feeds)

	var news, podcasts int
	for _, f := range feeds {
		require.NoError(t, f.Validate())
		switch f.Kind {
		case entity.KindNews:
			news++
		case entity.KindPodcast:
			podcasts++
		}
	}
	assert.Equal(t, 5, news)
	assert.Equal(t, 3, podcasts)
}

func TestLoadFeeds_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `feeds:
  - name: Ars Technica
    url: https://arstechnica.com/feed/
    kind: news
  - name: Latent Space
    url: https://example.com/latent/rss
    kind: podcast
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	feeds, err := LoadFeeds(path)
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, "Ars Technica", feeds[0].Name)
	assert.Equal(t, entity.KindPodcast, feeds[1].Kind)
}

func TestLoadFeeds_InvalidEntryFailsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `feeds:
  - name: Broken
    url: https://example.com/feed
    kind: video
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadFeeds(path)
	assert.Error(t, err)
}

func TestLoadFeeds_MissingFile(t *testing.T) {
	_, err := LoadFeeds("/does/not/exist.yaml")
	assert.Error(t, err)
}
