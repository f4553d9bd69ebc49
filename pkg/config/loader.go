package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load receives a nil target.
	ErrNilPointer = errors.New("config target must be a non-nil pointer")
	// ErrParsingConfig wraps env parsing failures.
	ErrParsingConfig = errors.New("failed to parse configuration")
)

var loadDotEnv sync.Once

// Load parses environment variables into v based on its `env` field tags.
// The default .env file is loaded once per process; a missing file is not
// an error.
func Load[T any](v *T) error {
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics on failure. Intended for
// configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
