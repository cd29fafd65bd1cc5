// Package log provides the structured logger used by datasetbot, built on
// log/slog with automatic masking of credentials.
//
// The bot handles four secrets (the Telegram bot token, the Kaggle key, the
// Hugging Face token and the GitHub token) and talks to APIs whose error
// messages can echo them back. SecureHandler wraps any slog.Handler and:
//   - masks attributes whose key names a credential (token, key, authorization, ...)
//   - masks string values shaped like a credential (bot tokens, ghp_/hf_ tokens, JWTs)
//   - scrubs bot tokens embedded in URLs inside error messages
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("catalog configured", "backend", "github", "token", cfg.GitHub.Token)
//	// token=***REDACTED***
//
//	slog.SetDefault(logger)
package log
