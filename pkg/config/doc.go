// Package config loads environment variables into tagged structs.
//
// Each notifykit package declares its own Config struct with `env` tags;
// this package parses them, loading a .env file first if one exists:
//
//	var cfg delivery.Config
//	if err := config.Load(&cfg); err != nil { ... }
package config
