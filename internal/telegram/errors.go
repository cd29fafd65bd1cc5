package telegram

import (
	"errors"
	"strings"
)

// ErrEmptyToken is returned by New when no bot token is given.
var ErrEmptyToken = errors.New("telegram bot token is empty")

// redactedError hides the bot token, which the Bot API embeds in every URL.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string {
	return e.msg
}

func (e *redactedError) Unwrap() error {
	return e.err
}

// redact returns err with every occurrence of token masked.
func redact(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), token, "[REDACTED]"),
		err: err,
	}
}
