// Package config provides centralized configuration management for Feedback Pulse.
// It loads configuration from environment variables and an optional YAML file,
// validates it, and exposes a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML file (config.yaml, configs/config.yaml or FEEDBACK_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FEEDBACK_<SECTION>_<FIELD>:
//
//	FEEDBACK_SERVER_PORT=8080
//	FEEDBACK_SOURCE_KIND=csv
//	FEEDBACK_SOURCE_URL=https://docs.google.com/.../pub?output=csv
//	FEEDBACK_SOURCE_CACHE_TTL=1h
//	FEEDBACK_LOGGING_LEVEL=debug
//
// # Source Kinds
//
//	csv     published CSV fetched over HTTP(S)
//	file    local CSV file
//	sheets  Google Sheets API values.get (API key or service account credentials)
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
