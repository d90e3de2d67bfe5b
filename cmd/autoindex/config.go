package main

import (
	"github.com/dmitrymomot/autoindex/core/server"
	"github.com/dmitrymomot/autoindex/core/static"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"autoindex"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"` // development, staging or production

	// MountPath is where the static handler is mounted on the mux.
	MountPath   string `env:"MOUNT_PATH" envDefault:"/"`
	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`

	Server server.Config
	Static static.Config
}
