package config

import (
	"github.com/dmitrymomot/magsubs/pkg/api"
	"github.com/dmitrymomot/magsubs/pkg/httpserver"
)

// App is the process configuration of the magsubs service.
type App struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"magsubs"`

	// LogLevel overrides the level implied by Env when set.
	LogLevel string `env:"LOG_LEVEL"`

	// PlansFile is an optional YAML file replacing the built-in plan seed.
	PlansFile string `env:"CATALOG_PLANS_FILE"`

	HTTP httpserver.Config
	API  api.Config
}
