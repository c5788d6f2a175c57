// Package config loads tubeloader's TOML configuration and keeps the
// desktop preferences stored through fyne.
//
// Load resolves the file (flag, XDG config home, ./tubeloader.toml),
// decodes it over Default, overlays environment variables and an optional
// .env file, then normalizes and validates the result.
package config
