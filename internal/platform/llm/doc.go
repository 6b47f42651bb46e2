// Package llm wraps the upstream OpenAI-compatible chat-completion API
// behind a small client interface the content writers depend on.
package llm
