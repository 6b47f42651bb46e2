package llm

import (
	"context"
	"errors"
)

// Common errors returned by the client.
var (
	// ErrModelCall is returned when the upstream API call errors or the
	// response carries no usable content. Callers decide whether to retry.
	ErrModelCall = errors.New("model call failed")

	// ErrEmptyPrompt is returned when the user message is empty.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

// Message is one turn of a conversation history.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request describes one chat-completion call. Each request is a fresh
// logical conversation; persistent state across calls is the caller's
// concern.
type Request struct {
	System      string
	History     []Message
	User        string
	Temperature *float64 // nil uses the configured default
}

// Client abstracts the chat-completion capability so content writers
// can be tested against a stub.
type Client interface {
	// Chat sends one conversation to the model and returns the generated
	// text. Returns an error wrapping ErrModelCall when the upstream
	// call fails or produces no usable content.
	Chat(ctx context.Context, req Request) (string, error)
}
