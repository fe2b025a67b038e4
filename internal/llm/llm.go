package llm

import "context"

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Client is a TextGenerator holding a network resource.
type Client interface {
	TextGenerator
	Close() error
}
