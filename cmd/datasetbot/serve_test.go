package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/config"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/dispatch"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
)

func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	tests := []struct {
		name   string
		defVal string
	}{
		{name: "staging-dir", defVal: config.DefaultStagingDir},
		{name: "port", defVal: "10000"},
		{name: "timeout", defVal: "10s"},
		{name: "poll-timeout", defVal: "1m0s"},
		{name: "max-part-size", defVal: "51380224"},
		{name: "log-format", defVal: "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.DefValue != tt.defVal {
				t.Errorf("expected default %q, got %q", tt.defVal, flag.DefValue)
			}
		})
	}
}

func TestServeRefusesToStartWithoutToken(t *testing.T) {
	t.Setenv(config.EnvBotToken, "")

	path := writeConfig(t, "staging_dir: "+filepath.Join(t.TempDir(), "temp")+"\n")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--config", path})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrMissingBotToken) {
		t.Errorf("expected ErrMissingBotToken, got %v", err)
	}
}

func TestNewRouter(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.StagingDir = filepath.Join(t.TempDir(), "missing")
	cfg.Kaggle = config.KaggleConfig{}

	router, err := newRouter(context.Background(), cfg, log.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := &recordingConversation{}
	if got := router.Handle(context.Background(), conv, dispatch.BundleKeyword); got != dispatch.OutcomeBundleNotice {
		t.Errorf("expected %v, got %v", dispatch.OutcomeBundleNotice, got)
	}
	if len(conv.texts) != 1 || conv.texts[0] != dispatch.NoticeDirectoryMissing {
		t.Errorf("expected directory missing notice, got %q", conv.texts)
	}
}

func TestNewRouterRejectsInvalidProxy(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.ProxyAddress = "not a proxy"

	if _, err := newRouter(context.Background(), cfg, log.Discard()); err == nil {
		t.Error("expected an error")
	}
}

// recordingConversation records plain text messages.
type recordingConversation struct {
	texts []string
}

func (c *recordingConversation) SendText(_ context.Context, text string) (int, error) {
	c.texts = append(c.texts, text)
	return len(c.texts), nil
}

func (c *recordingConversation) SendMarkdown(_ context.Context, text string) error {
	c.texts = append(c.texts, text)
	return nil
}

func (c *recordingConversation) EditText(context.Context, int, string) error {
	return nil
}

func (c *recordingConversation) SendDocument(context.Context, dispatch.Document) error {
	return nil
}
