// ABOUTME: Package documentation for the config package
// ABOUTME: Describes file locations, env expansion, and defaults

// Package config handles configuration loading for selectgate.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from SELECTGATE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/selectgate/selectgate.yaml
//  3. ~/.config/selectgate/selectgate.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${SELECTGATE_DB}"
//
// Syntax: ${VAR_NAME}
//
// # Defaults
//
// auth.external_id_header defaults to REMOTE_USER, auth.login_path to
// /login.html, sessions.ttl to 24h. Duration values use Go's
// time.ParseDuration syntax.
package config
