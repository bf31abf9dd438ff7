package classify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"day-assistant/internal/llm"
)

// ErrUpstream marks model-boundary failures (network, auth, provider
// errors). The conversation state of the caller is untouched when this is
// returned.
var ErrUpstream = errors.New("model upstream unavailable")

const defaultTimeout = 60 * time.Second

// Classifier prompts a model with conversation context plus a query and
// normalizes the reply into a Result.
type Classifier struct {
	client  llm.Client
	timeout time.Duration
	now     func() time.Time
}

func New(client llm.Client) *Classifier {
	return &Classifier{client: client, timeout: defaultTimeout, now: time.Now}
}

// SetTimeout replaces the hard cap applied around each model call.
func (c *Classifier) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

func (c *Classifier) Classify(ctx context.Context, history []Turn, query string) (Result, error) {
	msgs := BuildPrompt(history, query, c.now())

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return Normalize(resp.Content, c.now()), nil
}
