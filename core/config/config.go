package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilConfig is returned when Load receives a nil pointer.
var ErrNilConfig = errors.New("config: nil target")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (value of T)
	loadMu     sync.Mutex
)

// loadDotenv reads .env from the working directory once.
// A missing file is not an error; existing variables are never overridden.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load parses environment variables into cfg. The first successful load of a
// type is cached and copied into every later target of the same type.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	typ := reflect.TypeOf(cfg).Elem()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	loadDotenv()

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}
	cache.Store(typ, fresh)
	*cfg = fresh
	return nil
}

// MustLoad is like Load but panics on failure. Intended for startup code.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse parses environment variables into cfg without touching the cache.
func Parse[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}
	loadDotenv()
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %T: %w", cfg, err)
	}
	return nil
}
