package bot

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"prospector/internal/common/httpclient"
	"prospector/internal/common/logger"
)

// WebhookTransport delivers replies to the chat front end's outbound webhook.
// Every reply is one JSON POST; files travel base64-encoded in the payload.
type WebhookTransport struct {
	replyURL     string
	sharedSecret string
	httpClient   *httpclient.Client
	log          logger.Logger
}

func NewWebhookTransport(replyURL, sharedSecret string, log logger.Logger) *WebhookTransport {
	return &WebhookTransport{
		replyURL:     replyURL,
		sharedSecret: sharedSecret,
		httpClient:   httpclient.NewClient(30 * time.Second),
		log:          log.WithFields(map[string]interface{}{"component": "webhook-transport"}),
	}
}

type replyPayload struct {
	Kind     string  `json:"kind"`
	Channel  string  `json:"channel"`
	Thread   string  `json:"thread,omitempty"`
	Text     string  `json:"text,omitempty"`
	Blocks   []Block `json:"blocks,omitempty"`
	Filename string  `json:"filename,omitempty"`
	Title    string  `json:"title,omitempty"`
	Content  string  `json:"content,omitempty"` // base64
}

func (t *WebhookTransport) PostMessage(ctx context.Context, channel, thread, text string) error {
	return t.deliver(ctx, replyPayload{
		Kind:    "message",
		Channel: channel,
		Thread:  thread,
		Text:    text,
	})
}

func (t *WebhookTransport) PostBlocks(ctx context.Context, channel, thread string, blocks []Block, fallback string) error {
	return t.deliver(ctx, replyPayload{
		Kind:    "blocks",
		Channel: channel,
		Thread:  thread,
		Text:    fallback,
		Blocks:  blocks,
	})
}

func (t *WebhookTransport) UploadFile(ctx context.Context, channel, thread, filename, title string, content []byte) error {
	return t.deliver(ctx, replyPayload{
		Kind:     "file",
		Channel:  channel,
		Thread:   thread,
		Filename: filename,
		Title:    title,
		Content:  base64.StdEncoding.EncodeToString(content),
	})
}

func (t *WebhookTransport) deliver(ctx context.Context, payload replyPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reply payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.replyURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.sharedSecret != "" {
		req.Header.Set("X-Gateway-Token", t.sharedSecret)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reply delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("reply webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
