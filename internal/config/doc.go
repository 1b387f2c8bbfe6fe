// Package config loads settings for the sealbox command.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Built-in defaults ([Default]).
//  2. A config file. The format follows the extension: ".toml" for TOML,
//     ".yaml" or ".yml" for YAML.
//  3. SEALBOX_* environment variables, optionally seeded from a .env file.
//
// Command-line flags are applied by the caller after [Load].
//
// # Example
//
//	key_store_dir = "/var/lib/sealbox/keys"
//
//	[directory]
//	url = "https://keys.example.com"
//	token = "..."
//	retries = 3
//
//	[log]
//	level = "debug"
//	format = "json"
//
// # Environment
//
//	SEALBOX_KEY_STORE_DIR       key_store_dir
//	SEALBOX_DIRECTORY_URL       directory.url
//	SEALBOX_DIRECTORY_TOKEN     directory.token
//	SEALBOX_DIRECTORY_RETRIES   directory.retries
//	SEALBOX_DIRECTORY_RATE      directory.rate_limit
//	SEALBOX_LISTEN_ADDR         directory.listen_addr
//	SEALBOX_LOG_LEVEL           log.level
//	SEALBOX_LOG_FORMAT          log.format
package config
