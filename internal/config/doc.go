// Package config loads runtime configuration for recipekeeper.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-l string   log level: debug, info, warn, error
//	-j          log as JSON instead of text
//	-e string   bootstrap admin email
//	-p string   bootstrap admin password
//	-t int      session lifetime in minutes
//	-s string   session signing key (random when empty)
//	-r string   recipe id policy: counter or size
//
// # JSON schema
//
//	{
//	  "log_level": "debug",
//	  "log_json": false,
//	  "admin_email": "admin@example.com",
//	  "admin_password": "Password123",
//	  "session_ttl": "1h",
//	  "secret_key": "",
//	  "recipe_id_policy": "counter"
//	}
//
// session_ttl accepts a duration string or integer nanoseconds.
package config
