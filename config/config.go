package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alphadose/haxmap"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ProviderConfig carries one provider's credentials as supplied by the user.
type ProviderConfig struct {
	APIKey       string            `json:"api_key" yaml:"api_key"`
	APIBase      string            `json:"api_base,omitempty" yaml:"api_base,omitempty"`
	ExtraHeaders map[string]string `json:"extra_headers,omitempty" yaml:"extra_headers,omitempty"`

	// AllowInsecureTLS opts the OAuth provider into a single retry without
	// certificate verification. Ignored by every other provider.
	AllowInsecureTLS bool `json:"allow_insecure_tls,omitempty" yaml:"allow_insecure_tls,omitempty"`
}

// ProvidersConfig groups the provider credential sections. Field names match
// the registry entry names.
type ProvidersConfig struct {
	OpenRouter  ProviderConfig `json:"openrouter" yaml:"openrouter"`
	AIHubMix    ProviderConfig `json:"aihubmix" yaml:"aihubmix"`
	VLLM        ProviderConfig `json:"vllm" yaml:"vllm"`
	Anthropic   ProviderConfig `json:"anthropic" yaml:"anthropic"`
	OpenAICodex ProviderConfig `json:"openai_codex" yaml:"openai_codex"`
	OpenAI      ProviderConfig `json:"openai" yaml:"openai"`
	DeepSeek    ProviderConfig `json:"deepseek" yaml:"deepseek"`
	Gemini      ProviderConfig `json:"gemini" yaml:"gemini"`
	Groq        ProviderConfig `json:"groq" yaml:"groq"`
	Moonshot    ProviderConfig `json:"moonshot" yaml:"moonshot"`
	Zhipu       ProviderConfig `json:"zhipu" yaml:"zhipu"`
	DashScope   ProviderConfig `json:"dashscope" yaml:"dashscope"`
}

// AgentDefaults is the default agent configuration.
type AgentDefaults struct {
	Model       string  `json:"model" yaml:"model"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// AgentsConfig groups agent settings.
type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults" yaml:"defaults"`
}

// Config is the root configuration.
type Config struct {
	Agents    AgentsConfig    `json:"agents" yaml:"agents"`
	Providers ProvidersConfig `json:"providers" yaml:"providers"`

	// byName maps registry entry names to their credential sections.
	// Built once by index; read concurrently afterwards.
	byName *haxmap.Map[string, *ProviderConfig]
}

// Default returns a configuration with the stock defaults applied and the
// provider name index built.
func Default() *Config {
	c := &Config{
		Agents: AgentsConfig{
			Defaults: AgentDefaults{
				Model:       "anthropic/claude-opus-4-5",
				MaxTokens:   8192,
				Temperature: 0.7,
			},
		},
	}
	c.index()
	return c
}

// Load reads a configuration file (JSON or YAML, decided by extension) over
// the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	c.index()
	return c, nil
}

// index builds the registry-name lookup. The mapping is explicit: adding a
// provider section means adding a line here and a registry entry.
func (c *Config) index() {
	m := haxmap.New[string, *ProviderConfig]()
	m.Set("openrouter", &c.Providers.OpenRouter)
	m.Set("aihubmix", &c.Providers.AIHubMix)
	m.Set("vllm", &c.Providers.VLLM)
	m.Set("anthropic", &c.Providers.Anthropic)
	m.Set("openai_codex", &c.Providers.OpenAICodex)
	m.Set("openai", &c.Providers.OpenAI)
	m.Set("deepseek", &c.Providers.DeepSeek)
	m.Set("gemini", &c.Providers.Gemini)
	m.Set("groq", &c.Providers.Groq)
	m.Set("moonshot", &c.Providers.Moonshot)
	m.Set("zhipu", &c.Providers.Zhipu)
	m.Set("dashscope", &c.Providers.DashScope)
	c.byName = m
}

// provider returns the credential section for a registry name, or nil when
// the name is unknown.
func (c *Config) provider(name string) *ProviderConfig {
	if c.byName == nil {
		c.index()
	}
	p, ok := c.byName.Get(name)
	if !ok {
		return nil
	}
	return p
}
