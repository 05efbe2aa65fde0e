package bot

import "context"

// Block is one element of a structured message payload, in the chat
// platform's native JSON shape.
type Block = map[string]interface{}

// Transport delivers outbound messages and files. The bot never manages the
// chat platform's connection lifecycle; an adapter implementing Transport
// does.
type Transport interface {
	PostMessage(ctx context.Context, channel, thread, text string) error
	PostBlocks(ctx context.Context, channel, thread string, blocks []Block, fallback string) error
	UploadFile(ctx context.Context, channel, thread, filename, title string, content []byte) error
}

// Event is one inbound chat message or command.
type Event struct {
	Type        string `json:"type"`
	Channel     string `json:"channel"`
	Thread      string `json:"thread,omitempty"`
	UserID      string `json:"user"`
	Text        string `json:"text"`
	ChannelType string `json:"channel_type,omitempty"`
	BotID       string `json:"bot_id,omitempty"`
}
