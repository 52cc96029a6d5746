package config

import (
	"github.com/picobot-ai/picobot/provider/registry"
)

// MatchProvider resolves a model string to a credential section and the
// registry name that matched it. The algorithm is two-pass and order-stable:
//
//  1. Keyword pass: registry entries in order, first one whose keywords
//     match the model and that has a usable credential. OAuth entries are
//     keyword-matchable without any configuration, since their token comes
//     from a login flow rather than the config file.
//  2. Fallback pass: credentialed gateways in registry order, then
//     credentialed standard providers in registry order. Here OAuth entries
//     count only when explicitly configured (a key or base was set).
//
// Returns (nil, "") when nothing is configured at all.
func (c *Config) MatchProvider(model string) (*ProviderConfig, string) {
	if model == "" {
		model = c.Agents.Defaults.Model
	}

	for i := range registry.Providers {
		spec := &registry.Providers[i]
		p := c.provider(spec.Name)
		if p == nil || !spec.MatchesModel(model) {
			continue
		}
		if p.APIKey != "" || spec.OAuth {
			return p, spec.Name
		}
	}

	for _, wantGateway := range []bool{true, false} {
		for i := range registry.Providers {
			spec := &registry.Providers[i]
			if spec.Gateway != wantGateway {
				continue
			}
			p := c.provider(spec.Name)
			if p == nil {
				continue
			}
			if p.APIKey != "" || (spec.OAuth && p.APIBase != "") {
				return p, spec.Name
			}
		}
	}

	return nil, ""
}

// GetProvider returns the matched credential section, falling back to the
// first available one. Nil when nothing is configured.
func (c *Config) GetProvider(model string) *ProviderConfig {
	p, _ := c.MatchProvider(model)
	return p
}

// GetProviderName returns the registry name of the matched provider
// (e.g. "deepseek", "openrouter"), or "" when nothing matched.
func (c *Config) GetProviderName(model string) string {
	_, name := c.MatchProvider(model)
	return name
}

// GetAPIKey returns the matched provider's API key, or "" when unmatched.
func (c *Config) GetAPIKey(model string) string {
	if p := c.GetProvider(model); p != nil {
		return p.APIKey
	}
	return ""
}

// GetAPIBase returns the matched provider's endpoint. An explicitly
// configured base always wins; otherwise only gateway entries fall back to
// their registry default. Standard providers wire their endpoint through
// environment variables instead, to keep the completion backend's shared
// base setting untouched.
func (c *Config) GetAPIBase(model string) string {
	p, name := c.MatchProvider(model)
	if p != nil && p.APIBase != "" {
		return p.APIBase
	}
	if name != "" {
		if spec := registry.FindByName(name); spec != nil && spec.Gateway {
			return spec.DefaultAPIBase
		}
	}
	return ""
}
