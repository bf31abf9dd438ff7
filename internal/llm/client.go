package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is the model boundary: role-tagged messages in, one text blob out.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
