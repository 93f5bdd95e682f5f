// Package config loads process configuration from the environment.
//
// It wraps `github.com/joho/godotenv` for .env files and
// `github.com/caarlos0/env/v11` for struct tag parsing. Each config type is
// parsed once and cached for the life of the process; call Reset in tests to
// force a fresh parse.
//
// # Usage
//
//	if err := config.LoadEnv("./deploy/.env"); err != nil {
//		log.Fatal(err)
//	}
//
//	var cfg config.App
//	config.MustLoad(&cfg)
//
// App collects everything the service binary needs:
//
//	APP_ENV              development | staging | production (default development)
//	APP_NAME             service name attached to log records (default magsubs)
//	LOG_LEVEL            debug | info | warn | error, overrides the APP_ENV preset
//	CATALOG_PLANS_FILE   optional YAML file replacing the built-in plans
//	HTTP_ADDR, HTTP_*    listener settings, see httpserver.Config
//	HTTP_TRUST_PROXY     honour forwarding headers for client IPs
//	CORS_ALLOWED_ORIGINS comma-separated origins; CORS is off when empty
//
// # Errors
//
//   - ErrParsingConfig: env vars could not be parsed into the struct.
//   - ErrLoadingEnvFile: a file passed to LoadEnv could not be read.
//   - ErrNilPointer: nil pointer passed to Load or MustLoad.
package config
