package picobot

import (
	"github.com/picobot-ai/picobot/config"
	"github.com/picobot-ai/picobot/provider"
	"github.com/picobot-ai/picobot/provider/codex"
	"github.com/picobot-ai/picobot/provider/dispatch"
)

// NewProvider builds the chat provider matching the configured default
// model: the OAuth Codex provider when the matcher resolves to it, the
// generic dispatcher for everything else.
func NewProvider(cfg *config.Config) (provider.Provider, error) {
	model := cfg.Agents.Defaults.Model
	name := cfg.GetProviderName(model)

	if name == "openai_codex" {
		options := []codex.Option{}
		if pc := cfg.GetProvider(model); pc != nil {
			options = append(options, codex.WithAllowInsecureTLS(pc.AllowInsecureTLS))
			if pc.APIBase != "" {
				options = append(options, codex.WithBaseURL(pc.APIBase))
			}
		}
		return codex.New(options...)
	}

	options := []dispatch.Option{
		dispatch.WithAPIKey(cfg.GetAPIKey(model)),
		dispatch.WithAPIBase(cfg.GetAPIBase(model)),
		dispatch.WithDefaultModel(model),
		dispatch.WithProviderName(name),
	}
	if pc := cfg.GetProvider(model); pc != nil && len(pc.ExtraHeaders) > 0 {
		options = append(options, dispatch.WithExtraHeaders(pc.ExtraHeaders))
	}
	return dispatch.New(options...)
}
