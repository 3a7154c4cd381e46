// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as
// the file format.
//
// Configuration is loaded from ~/.config/dirun/config.toml (or XDG
// equivalent on Linux, ~/Library/Application Support/dirun/config.toml on
// macOS, %APPDATA%\dirun\config.toml on Windows). Every key has a default;
// a missing file is not an error. Command-line flags take precedence over
// file values.
package config
