package entity

import "time"

type ChatSender string

const (
	ChatSenderUser ChatSender = "user"
	ChatSenderBot  ChatSender = "bot"
)

type ChatMessage struct {
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"text"`
	HTML      string     `json:"html,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	// Greeting marks the canned opening line; it is never sent to the model.
	Greeting bool `json:"greeting,omitempty"`
	// Fallback marks a bot line substituted for a failed remote call.
	Fallback bool `json:"fallback,omitempty"`
}

type ChatSession struct {
	ID        string        `json:"id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
