// Package config loads env-tagged configuration structs, backed by
// github.com/caarlos0/env and an optional .env file via godotenv.
//
// Every configuration type is parsed once per process and cached, which keeps
// startup deterministic when several components share a config struct.
package config
