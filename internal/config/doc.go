// Package config loads, normalizes, and validates autosrt configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files, and honours environment
// fallbacks such as APP_ID and ACCESS_KEY. The Config type centralizes every
// knob the CLI needs so transcription credentials, work directories and
// output policy are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
