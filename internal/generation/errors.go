package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when content generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the model response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyTopic is returned when a writer is invoked without a topic
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrEmptySource is returned when assistant operations are invoked without source content
	ErrEmptySource = errors.New("source content cannot be empty")
)
