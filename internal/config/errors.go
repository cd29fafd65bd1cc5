package config

import "errors"

// Configuration errors.
// These are fatal at startup: the caller reports them and exits instead of
// running with a broken configuration.
var (
	// ErrMissingBotToken is returned when TELEGRAM_BOT_TOKEN is not set.
	ErrMissingBotToken = errors.New("missing required bot token: set TELEGRAM_BOT_TOKEN or bot_token in the config file")

	// ErrEmptyStagingDir is returned when the staging directory path is blank.
	ErrEmptyStagingDir = errors.New("invalid staging directory: must not be empty")

	// ErrArchiveDirIsStaging is returned when temporary archives would be
	// written into the staging directory and picked up by later bundles.
	ErrArchiveDirIsStaging = errors.New("invalid archive directory: must differ from the staging directory")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPollTimeout is returned when the poll timeout is not positive
	// or not shorter than the transport timeout.
	ErrInvalidPollTimeout = errors.New("invalid poll timeout: must be positive and shorter than the transport timeout")

	// ErrInvalidResultLimit is returned when a result limit is not positive.
	ErrInvalidResultLimit = errors.New("invalid result limit: must be positive")

	// ErrInvalidPort is returned when the liveness port is out of range.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrInvalidPartSize is returned when the upload part size is not positive.
	ErrInvalidPartSize = errors.New("invalid max part size: must be positive")

	// ErrInvalidLogFormat is returned for log formats other than text and json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")
)
