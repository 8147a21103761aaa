// Package config loads application configuration from environment variables
// into annotated structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file (if present) is loaded once per process, then the
// environment is parsed into any struct using `env` field tags.
//
// Usage:
//
//	type GatewayConfig struct {
//	    APIKey  string        `env:"PADDLE_API_KEY,required"`
//	    Timeout time.Duration `env:"PADDLE_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg GatewayConfig
//	config.MustLoad(&cfg)
//
// Errors can be compared with errors.Is against ErrParsingConfig and
// ErrNilPointer.
package config
