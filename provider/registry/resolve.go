package registry

import "strings"

// ResolveModel applies routing prefixes to a requested model identifier.
//
// In gateway mode the gateway's prefix wins: any existing vendor prefix is
// stripped first when the gateway asks for it, then the gateway prefix is
// prepended unless already present. Outside gateway mode the model is matched
// against the registry and auto-prefixed with the vendor prefix unless it
// already starts with one of the spec's skip prefixes. Unmatched models pass
// through unchanged.
func ResolveModel(model string, gateway *Spec) string {
	if gateway != nil {
		if gateway.StripModelPrefix {
			if idx := strings.LastIndex(model, "/"); idx >= 0 {
				model = model[idx+1:]
			}
		}
		if gateway.ModelPrefix != "" && !strings.HasPrefix(model, gateway.ModelPrefix+"/") {
			model = gateway.ModelPrefix + "/" + model
		}
		return model
	}

	spec := FindByModel(model)
	if spec == nil || spec.ModelPrefix == "" {
		return model
	}
	for _, skip := range spec.SkipPrefixes {
		if strings.HasPrefix(model, skip) {
			return model
		}
	}
	return spec.ModelPrefix + "/" + model
}

// OverridesFor returns the parameter overrides for a resolved model string.
// The matching spec's override list is scanned in order and only the first
// substring match applies; overrides never accumulate. Returns nil when no
// override matches.
func OverridesFor(model string) map[string]any {
	spec := FindByModel(model)
	if spec == nil {
		return nil
	}
	lower := strings.ToLower(model)
	for _, ov := range spec.Overrides {
		if strings.Contains(lower, ov.Match) {
			return ov.Params
		}
	}
	return nil
}
