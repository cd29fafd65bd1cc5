// Package telegram connects the dispatch router to the Telegram Bot API
// using long polling.
package telegram
