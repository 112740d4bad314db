package ratelimit

import "strings"

// MatchEndpoint matches a request path and method to an endpoint policy.
// Exact matches win; patterns ending in "/" match by prefix so that
// "/requisitions/" covers "/requisitions/{id}/analyze". Returns nil when
// nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") &&
			strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
