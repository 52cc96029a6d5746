package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchProvider_KeywordBeatsFallbackOrder(t *testing.T) {
	cfg := Default()
	cfg.Providers.OpenRouter.APIKey = "sk-or-key"
	cfg.Providers.DeepSeek.APIKey = "deepseek-key"

	// deepseek matches by keyword even though openrouter (a gateway,
	// earlier in the registry) is also credentialed
	p, name := cfg.MatchProvider("deepseek-chat")
	require.NotNil(t, p)
	assert.Equal(t, "deepseek", name)
	assert.Equal(t, "deepseek-key", p.APIKey)
}

func TestMatchProvider_FallbackToCredentialedProvider(t *testing.T) {
	cfg := Default()
	cfg.Providers.DeepSeek.APIKey = "deepseek-key"

	// "custom-model" matches no keyword; the only credentialed provider
	// wins regardless of registry position
	assert.Equal(t, "deepseek", cfg.GetProviderName("custom-model"))
	assert.Equal(t, "deepseek-key", cfg.GetAPIKey("custom-model"))
}

func TestMatchProvider_FallbackPrefersGateways(t *testing.T) {
	cfg := Default()
	cfg.Providers.Anthropic.APIKey = "anthropic-key"
	cfg.Providers.AIHubMix.APIKey = "hub-key"

	// aihubmix is later than anthropic would be in a flat scan, but
	// gateways win the fallback pass
	assert.Equal(t, "aihubmix", cfg.GetProviderName("custom-model"))
}

func TestMatchProvider_FallbackRegistryOrderTieBreak(t *testing.T) {
	cfg := Default()
	cfg.Providers.Gemini.APIKey = "gemini-key"
	cfg.Providers.DeepSeek.APIKey = "deepseek-key"

	// both are credentialed non-gateways; deepseek sits earlier in the
	// registry and must win
	assert.Equal(t, "deepseek", cfg.GetProviderName("custom-model"))
}

func TestMatchProvider_OAuthMatchesByKeywordWithoutKey(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "openai_codex", cfg.GetProviderName("openai-codex/gpt-5.1-codex"))
}

func TestMatchProvider_OAuthFallbackRequiresExplicitConfig(t *testing.T) {
	t.Run("unconfigured oauth loses to key-based provider", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.DeepSeek.APIKey = "deepseek-key"

		assert.Equal(t, "deepseek", cfg.GetProviderName("custom-model"))
	})

	t.Run("configured oauth participates in fallback", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.OpenAICodex.APIBase = "https://chatgpt.com/backend-api"

		assert.Equal(t, "openai_codex", cfg.GetProviderName("custom-model"))
	})

	t.Run("registry order decides between oauth and key-based", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.Gemini.APIKey = "gemini-key"
		cfg.Providers.OpenAICodex.APIBase = "https://chatgpt.com/backend-api"

		// openai_codex precedes gemini in the registry
		assert.Equal(t, "openai_codex", cfg.GetProviderName("custom-model"))
	})
}

func TestMatchProvider_NothingConfigured(t *testing.T) {
	cfg := Default()

	p, name := cfg.MatchProvider("custom-model")
	assert.Nil(t, p)
	assert.Empty(t, name)
	assert.Nil(t, cfg.GetProvider("custom-model"))
	assert.Empty(t, cfg.GetProviderName("custom-model"))
	assert.Empty(t, cfg.GetAPIKey("custom-model"))
	assert.Empty(t, cfg.GetAPIBase("custom-model"))
}

func TestMatchProvider_EmptyModelUsesDefault(t *testing.T) {
	cfg := Default()
	cfg.Agents.Defaults.Model = "deepseek-chat"
	cfg.Providers.DeepSeek.APIKey = "deepseek-key"

	assert.Equal(t, "deepseek", cfg.GetProviderName(""))
}

func TestGetAPIBase(t *testing.T) {
	t.Run("explicit base always wins", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.OpenRouter.APIKey = "sk-or-key"
		cfg.Providers.OpenRouter.APIBase = "https://proxy.internal/v1"

		assert.Equal(t, "https://proxy.internal/v1", cfg.GetAPIBase("openrouter/gpt-4o"))
	})

	t.Run("gateway default base", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.OpenRouter.APIKey = "sk-or-key"

		assert.Equal(t, "https://openrouter.ai/api/v1", cfg.GetAPIBase("openrouter/gpt-4o"))
	})

	t.Run("non-gateway entries never get an implicit base", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.Moonshot.APIKey = "moon-key"

		// moonshot carries a default base for env wiring, but the
		// accessor must not leak it
		assert.Empty(t, cfg.GetAPIBase("kimi-k2.5"))
	})
}
