// Package config loads and validates the TOML configuration shared by the
// daemon and the CLI.
//
// Load resolves the config path (explicit flag, ~/.config/atelier/config.toml,
// or ./atelier.toml), applies defaults, expands ~ in paths, and validates the
// result. A missing file is not an error; defaults are used.
package config
