package config

import "os"

const (
	EnvDatabaseDSN = "GATEKEEPER_DATABASE_DSN"
	EnvSecretKey   = "GATEKEEPER_SECRET_KEY"
)

// parseEnv overrides the DSN and the signing secret from the environment,
// so neither has to appear on the command line.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok && v != "" {
		config.SecretKey = v
	}
}
