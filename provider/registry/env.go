package registry

import (
	"strings"

	"github.com/picobot-ai/picobot/pkg/envx"
)

// SetupEnv propagates resolved credentials into the environment consumed by
// the completion backend. The spec is chosen from the detected gateway when
// there is one, otherwise by model keyword lookup.
//
// Gateway credentials overwrite any existing value: a user who configured a
// gateway intends to route everything through it. Standard provider
// credentials are written set-if-absent so externally supplied values are
// never clobbered. EnvExtras templates have {api_key} and {api_base}
// substituted, with the spec's default base filling in when the caller gave
// none; they are always written set-if-absent. The whole operation is
// idempotent.
func SetupEnv(env envx.Environ, gateway *Spec, apiKey, apiBase, model string) {
	if apiKey == "" {
		return
	}

	spec := gateway
	if spec == nil {
		spec = FindByModel(model)
	}
	if spec == nil {
		return
	}

	if spec.EnvKey != "" {
		if gateway != nil {
			env.Set(spec.EnvKey, apiKey)
		} else {
			env.SetIfAbsent(spec.EnvKey, apiKey)
		}
	}

	base := apiBase
	if base == "" {
		base = spec.DefaultAPIBase
	}
	for _, extra := range spec.EnvExtras {
		resolved := strings.ReplaceAll(extra.Template, "{api_key}", apiKey)
		resolved = strings.ReplaceAll(resolved, "{api_base}", base)
		env.SetIfAbsent(extra.Name, resolved)
	}
}
