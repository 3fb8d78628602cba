package config

import "os"

// Development-only fallbacks. Startup refuses to use these in production.
const (
	defaultSessionSecret = "batmodule-dev-session-secret"
	defaultCSRFSecret    = "batmodule-dev-csrf-secret"
	defaultJWTSecret     = "batmodule-dev-jwt-secret"
)

type SecretSource string

const (
	SecretSourceExplicit        SecretSource = "explicit"
	SecretSourceFallback        SecretSource = "fallback"
	SecretSourceInsecureDefault SecretSource = "insecure-default"
)

// Secret is a resolved secret value tagged with where it came from, so
// callers can warn or refuse to boot when the hardcoded default is in play.
type Secret struct {
	Value  string
	Source SecretSource
}

// ResolveSecret reads primaryEnv, then fallbackEnv, then the hardcoded
// default, and records which one won.
func ResolveSecret(primaryEnv, fallbackEnv, insecureDefault string) Secret {
	if v := os.Getenv(primaryEnv); v != "" {
		return Secret{Value: v, Source: SecretSourceExplicit}
	}
	if fallbackEnv != "" {
		if v := os.Getenv(fallbackEnv); v != "" {
			return Secret{Value: v, Source: SecretSourceFallback}
		}
	}
	return Secret{Value: insecureDefault, Source: SecretSourceInsecureDefault}
}
