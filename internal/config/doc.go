// Package config provides the runtime configuration for datasetbot.
//
// Values are resolved in increasing priority:
//  1. Defaults from NewConfig
//  2. The YAML configuration file (see FindConfigFile)
//  3. Environment variables (TELEGRAM_BOT_TOKEN, KAGGLE_USERNAME, KAGGLE_KEY,
//     HF_TOKEN, GITHUB_TOKEN, PORT, STAGING_DIR)
//  4. Command-line flags, applied by cmd/datasetbot
//
// The resulting Config is passed explicitly to every component; nothing in
// the bot reads configuration from package-level state.
package config
