package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/dispatch"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
)

const (
	// DefaultPollTimeout is the long-polling timeout sent to getUpdates.
	DefaultPollTimeout = 60 * time.Second

	// DefaultRetryDelay is the pause after a failed getUpdates call.
	DefaultRetryDelay = 3 * time.Second

	// DefaultHTTPTimeout bounds one Bot API request, uploads included.
	DefaultHTTPTimeout = 90 * time.Second

	startCommand = "start"
)

// HelpText answers /start.
const HelpText = "🤖 *Production Bot Ready*\n\n" +
	"1. Send `" + dispatch.BundleKeyword + "` to get a ZIP of the temp folder.\n" +
	"2. Send ANY text to search datasets (Links Only)."

// Handler serves one inbound text message.
type Handler interface {
	Handle(ctx context.Context, conv dispatch.Conversation, text string, logAttrs ...any) dispatch.Outcome
}

// Bot polls Telegram for messages and hands each one to a Handler on its
// own goroutine.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler Handler
	token   string
	logger  *slog.Logger

	endpoint    string
	client      *http.Client
	pollTimeout time.Duration
	retryDelay  time.Duration

	wg sync.WaitGroup
}

// Option configures a Bot.
type Option func(*Bot)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithAPIEndpoint sets the Bot API URL format, "<base>/bot%s/%s".
func WithAPIEndpoint(endpoint string) Option {
	return func(b *Bot) {
		if endpoint != "" {
			b.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the client used for Bot API requests. Its timeout
// must exceed the poll timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Bot) {
		if client != nil {
			b.client = client
		}
	}
}

// WithPollTimeout sets the long-polling timeout.
func WithPollTimeout(d time.Duration) Option {
	return func(b *Bot) {
		if d >= 0 {
			b.pollTimeout = d
		}
	}
}

// WithRetryDelay sets the pause after a failed poll.
func WithRetryDelay(d time.Duration) Option {
	return func(b *Bot) {
		if d > 0 {
			b.retryDelay = d
		}
	}
}

// New authenticates against the Bot API. Every request the Bot makes is
// bound to ctx, so cancelling ctx aborts a pending long poll.
func New(ctx context.Context, token string, handler Handler, opts ...Option) (*Bot, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	b := &Bot{
		handler:     handler,
		token:       token,
		endpoint:    tgbotapi.APIEndpoint,
		client:      &http.Client{Timeout: DefaultHTTPTimeout},
		pollTimeout: DefaultPollTimeout,
		retryDelay:  DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = log.Discard()
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, b.endpoint, &contextClient{ctx: ctx, client: b.client})
	if err != nil {
		return nil, b.wrap("connect to Telegram", err)
	}
	b.api = api

	b.logger.Info("authorized on Telegram", "username", api.Self.UserName)
	return b, nil
}

// Username returns the bot's Telegram username.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run drops pending updates and polls until ctx is cancelled, then waits
// for in-flight messages to finish.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return b.wrap("drop pending updates", err)
	}

	b.logger.Info("polling for updates", "timeout", b.pollTimeout)
	defer b.wg.Wait()

	offset := 0
	for ctx.Err() == nil {
		cfg := tgbotapi.NewUpdate(offset)
		cfg.Timeout = int(b.pollTimeout / time.Second)

		updates, err := b.api.GetUpdates(cfg)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			b.logger.Warn("failed to get updates", "error", b.wrap("get updates", err), "retry_in", b.retryDelay)
			select {
			case <-ctx.Done():
			case <-time.After(b.retryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			b.route(ctx, u)
		}
	}

	b.logger.Info("stopped polling")
	return nil
}

// route starts a goroutine for a text message. Non-text updates and
// commands other than /start are ignored.
func (b *Bot) route(ctx context.Context, u tgbotapi.Update) {
	msg := u.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}

	attrs := []any{"chat_id", msg.Chat.ID, "message_id", msg.MessageID}
	conv := &chat{bot: b, id: msg.Chat.ID}

	if msg.IsCommand() {
		if msg.Command() != startCommand {
			b.logger.Debug("ignoring command", append(attrs, "command", msg.Command())...)
			return
		}
		b.spawn(attrs, func() {
			if err := conv.SendMarkdown(ctx, HelpText); err != nil {
				b.logger.Error("failed to send help", append(attrs, "error", err)...)
			}
		})
		return
	}

	b.spawn(attrs, func() {
		b.handler.Handle(ctx, conv, msg.Text, attrs...)
	})
}

func (b *Bot) spawn(attrs []any, fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if v := recover(); v != nil {
				perr := &dispatch.PanicError{Value: v, Stack: debug.Stack()}
				b.logger.Error("message handler panicked",
					append(attrs, "error", perr, "stack", string(perr.Stack))...)
			}
		}()
		fn()
	}()
}

// wrap annotates a Bot API error and masks the token.
func (b *Bot) wrap(op string, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("failed to %s: telegram error %d: %w", op, apiErr.Code, err)
	}
	return redact(fmt.Errorf("failed to %s: %w", op, err), b.token)
}

// contextClient binds every Bot API request to a context.
type contextClient struct {
	ctx    context.Context //nolint:containedctx // the Bot API client has no context parameter
	client *http.Client
}

func (c *contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}

// SetLibraryLogger routes the Bot API library's own output to logger at
// debug level. The library logger is process-wide.
func SetLibraryLogger(logger *slog.Logger) error {
	if err := tgbotapi.SetLogger(&botLogger{logger: logger}); err != nil {
		return fmt.Errorf("failed to set bot logger: %w", err)
	}
	return nil
}

// botLogger routes the Bot API library's own output to slog at debug level.
type botLogger struct {
	logger *slog.Logger
}

func (l *botLogger) Println(v ...any) {
	l.logger.Debug(fmt.Sprint(v...), "component", "telegram-bot-api")
}

func (l *botLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "telegram-bot-api")
}
