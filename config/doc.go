// Package config loads xhrkit configuration with Viper.
//
// A config.yml is resolved from the standard locations (./cmd/<name>/,
// ./config/, ./), an optional .env file is loaded with godotenv, and
// environment variables carrying the XHR_ prefix override file values
// using underscore-separated paths (XHR_TRANSPORT_BACKEND=browser).
//
//	var cfg Config
//	err := config.LoadConfig("xhr", &cfg, config.WithConfigFile(path))
package config
