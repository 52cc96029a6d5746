package registry

import "strings"

// EnvVar is an auxiliary environment binding carried by a Spec. The template
// may reference the literal tokens {api_key} and {api_base}, which are
// substituted during SetupEnv.
type EnvVar struct {
	Name     string
	Template string
}

// Override pairs a model-name substring with completion parameter overrides.
// Overrides are consulted in order and only the first match applies.
type Override struct {
	Match  string
	Params map[string]any
}

// Spec is the immutable registry descriptor for one provider or gateway.
// All provider-specific behavior (keyword matching, credential env wiring,
// model prefixing, parameter overrides) is data on this record; the matching
// and resolution functions below stay generic.
type Spec struct {
	// Name is the configuration key that carries this provider's credentials.
	Name string

	// Keywords match a requested model by case-insensitive substring.
	Keywords []string

	// EnvKey is the credential environment variable consumed by the
	// completion backend.
	EnvKey string

	// EnvExtras are additional environment bindings resolved from the
	// user's key and base during SetupEnv.
	EnvExtras []EnvVar

	// ModelPrefix is prepended to model identifiers for routing.
	ModelPrefix string

	// SkipPrefixes suppress auto-prefixing when the model already starts
	// with one of them.
	SkipPrefixes []string

	// Gateway marks entries that proxy many vendors behind one endpoint.
	Gateway bool

	// DefaultAPIBase is the endpoint used when the user supplies none.
	// Only gateways expose it through the config accessors; standard
	// providers consume it via EnvExtras instead.
	DefaultAPIBase string

	// StripModelPrefix drops any existing vendor prefix before the
	// gateway prefix is applied.
	StripModelPrefix bool

	// OAuth marks providers authenticated by token exchange rather than a
	// static key. They are keyword-matchable without a configured key.
	OAuth bool

	// Overrides lists per-model parameter overrides, most specific first.
	Overrides []Override
}

// Providers is the ordered provider registry. Order is part of the contract:
// it is the tie-break for every fallback decision, so entries must not be
// reordered casually. Gateways come first so that a user who configured one
// gets everything routed through it.
var Providers = []Spec{
	{
		Name:           "openrouter",
		Keywords:       []string{"openrouter"},
		EnvKey:         "OPENROUTER_API_KEY",
		ModelPrefix:    "openrouter",
		Gateway:        true,
		DefaultAPIBase: "https://openrouter.ai/api/v1",
	},
	{
		Name:             "aihubmix",
		Keywords:         []string{"aihubmix"},
		EnvKey:           "AIHUBMIX_API_KEY",
		ModelPrefix:      "openai",
		Gateway:          true,
		StripModelPrefix: true,
		DefaultAPIBase:   "https://aihubmix.com/v1",
		EnvExtras: []EnvVar{
			{Name: "OPENAI_API_KEY", Template: "{api_key}"},
			{Name: "OPENAI_API_BASE", Template: "{api_base}"},
		},
	},
	{
		Name:             "vllm",
		Keywords:         []string{"vllm"},
		EnvKey:           "HOSTED_VLLM_API_KEY",
		ModelPrefix:      "hosted_vllm",
		Gateway:          true,
		StripModelPrefix: true,
		EnvExtras: []EnvVar{
			{Name: "HOSTED_VLLM_API_BASE", Template: "{api_base}"},
		},
	},
	{
		Name:         "anthropic",
		Keywords:     []string{"claude", "anthropic"},
		EnvKey:       "ANTHROPIC_API_KEY",
		ModelPrefix:  "anthropic",
		SkipPrefixes: []string{"anthropic/", "openrouter/", "bedrock/", "vertex_ai/"},
	},
	{
		// Authenticated through the Codex OAuth flow, not a static key.
		Name:     "openai_codex",
		Keywords: []string{"openai-codex", "codex"},
		OAuth:    true,
	},
	{
		Name:         "openai",
		Keywords:     []string{"gpt", "openai", "o1", "o3"},
		EnvKey:       "OPENAI_API_KEY",
		SkipPrefixes: []string{"openai/", "openrouter/", "azure/"},
		Overrides: []Override{
			// gpt-5 family rejects sampling temperatures other than 1.
			{Match: "gpt-5", Params: map[string]any{"temperature": 1.0}},
		},
	},
	{
		Name:         "deepseek",
		Keywords:     []string{"deepseek"},
		EnvKey:       "DEEPSEEK_API_KEY",
		ModelPrefix:  "deepseek",
		SkipPrefixes: []string{"deepseek/", "openrouter/"},
	},
	{
		Name:         "gemini",
		Keywords:     []string{"gemini"},
		EnvKey:       "GEMINI_API_KEY",
		ModelPrefix:  "gemini",
		SkipPrefixes: []string{"gemini/", "openrouter/", "vertex_ai/"},
	},
	{
		Name:         "groq",
		Keywords:     []string{"groq"},
		EnvKey:       "GROQ_API_KEY",
		ModelPrefix:  "groq",
		SkipPrefixes: []string{"groq/"},
	},
	{
		Name:           "moonshot",
		Keywords:       []string{"moonshot", "kimi"},
		EnvKey:         "MOONSHOT_API_KEY",
		ModelPrefix:    "moonshot",
		SkipPrefixes:   []string{"moonshot/", "openrouter/"},
		DefaultAPIBase: "https://api.moonshot.ai/v1",
		EnvExtras: []EnvVar{
			{Name: "MOONSHOT_API_BASE", Template: "{api_base}"},
		},
		Overrides: []Override{
			{Match: "kimi-k2.5", Params: map[string]any{"temperature": 1.0}},
			{Match: "kimi", Params: map[string]any{"temperature": 0.6}},
		},
	},
	{
		Name:         "zhipu",
		Keywords:     []string{"zhipu", "glm"},
		EnvKey:       "ZHIPUAI_API_KEY",
		ModelPrefix:  "zhipu",
		SkipPrefixes: []string{"zhipu/", "openrouter/"},
	},
	{
		Name:         "dashscope",
		Keywords:     []string{"dashscope", "qwen"},
		EnvKey:       "DASHSCOPE_API_KEY",
		ModelPrefix:  "dashscope",
		SkipPrefixes: []string{"dashscope/", "openrouter/"},
	},
}

// MatchesModel reports whether one of the spec's keywords occurs in the
// model string, compared case-insensitively.
func (s *Spec) MatchesModel(model string) bool {
	lower := strings.ToLower(model)
	for _, kw := range s.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FindByModel returns the first registry entry whose keywords match the
// model string, or nil when nothing matches.
func FindByModel(model string) *Spec {
	for i := range Providers {
		if Providers[i].MatchesModel(model) {
			return &Providers[i]
		}
	}
	return nil
}

// FindByName returns the registry entry with the given configuration name,
// or nil when the name is unknown.
func FindByName(name string) *Spec {
	for i := range Providers {
		if Providers[i].Name == name {
			return &Providers[i]
		}
	}
	return nil
}

// FindGateway detects gateway mode for a set of credentials. The provider
// name hint (the configuration key the credentials came from) is the primary
// signal; the key and base values are heuristics for when no hint is given.
// Returns nil when the credentials do not belong to a gateway.
func FindGateway(nameHint, apiKey, apiBase string) *Spec {
	if nameHint != "" {
		if spec := FindByName(nameHint); spec != nil && spec.Gateway {
			return spec
		}
		return nil
	}

	if strings.HasPrefix(apiKey, "sk-or-") {
		return FindByName("openrouter")
	}

	base := strings.ToLower(apiBase)
	switch {
	case base == "":
		return nil
	case strings.Contains(base, "openrouter"):
		return FindByName("openrouter")
	case strings.Contains(base, "aihubmix"):
		return FindByName("aihubmix")
	case strings.Contains(base, "localhost"), strings.Contains(base, "127.0.0.1"), strings.Contains(base, "0.0.0.0"):
		// Local deployments are served through the vllm entry.
		return FindByName("vllm")
	}
	return nil
}
