// Package telegram talks to the Bot API and verifies the identity payloads
// produced by the Telegram login surfaces.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// ErrNotConfigured is returned when the bot token or chat id is missing.
var ErrNotConfigured = errors.New("telegram: bot token or chat id not configured")

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	ChatID    string
	ParseMode string
	// Timeout bounds every single Bot API call.
	Timeout time.Duration
}

// Client sends messages and documents to one operator chat.
type Client struct {
	api       *bot.Bot
	chatID    string
	parseMode models.ParseMode
	timeout   time.Duration
}

// NewClient creates a new Bot API client. Without a token the client stays
// unconfigured and every send fails with ErrNotConfigured.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	c := &Client{
		chatID:    opts.ChatID,
		parseMode: models.ParseMode(opts.ParseMode),
		timeout:   timeout,
	}
	if strings.TrimSpace(opts.Token) == "" {
		return c
	}

	api, err := bot.New(opts.Token,
		bot.WithSkipGetMe(),
		bot.WithServerURL(baseURL),
		bot.WithHTTPClient(timeout, &http.Client{}),
	)
	if err == nil {
		c.api = api
	}
	return c
}

// Configured reports whether the client has credentials to send anything.
func (c *Client) Configured() bool {
	return c.api != nil && c.chatID != ""
}

// Document is a file relayed to the operator chat.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
	Caption     string
}

// SendMessage posts text to the operator chat and returns the message id.
func (c *Client) SendMessage(ctx context.Context, text string) (int64, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: c.parseMode,
	})
	return messageID(ctx, "sendMessage", msg, err)
}

// SendDocument uploads a file with a caption to the operator chat.
func (c *Client) SendDocument(ctx context.Context, doc Document) (int64, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.api.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: c.chatID,
		Document: &models.InputFileUpload{
			Filename: documentName(doc),
			Data:     bytes.NewReader(doc.Data),
		},
		Caption:   doc.Caption,
		ParseMode: c.parseMode,
	})
	return messageID(ctx, "sendDocument", msg, err)
}

// documentName gives extensionless uploads an extension matching their
// content type so the chat shows a usable file.
func documentName(doc Document) string {
	name := doc.FileName
	if name == "" {
		name = "file"
	}
	if path.Ext(name) != "" || doc.ContentType == "" {
		return name
	}
	if mt := mimetype.Lookup(doc.ContentType); mt != nil {
		name += mt.Extension()
	}
	return name
}

func messageID(ctx context.Context, method string, msg *models.Message, err error) (int64, error) {
	if err != nil {
		// Transport errors are flattened to text by the library.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("telegram %s: %w", method, ctxErr)
		}
		return 0, fmt.Errorf("telegram %s: %w", method, err)
	}
	if msg == nil {
		return 0, nil
	}
	return int64(msg.ID), nil
}
