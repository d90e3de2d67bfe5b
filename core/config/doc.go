// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use and
// uses the caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	type StaticConfig struct {
//		Root      string `env:"STATIC_ROOT,required"`
//		Autoindex bool   `env:"STATIC_AUTOINDEX" envDefault:"false"`
//	}
//
//	var cfg StaticConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// # Caching Behavior
//
// Load caches per type; a second Load of the same type returns the first
// result even if the environment changed in between. Parse bypasses the cache.
package config
