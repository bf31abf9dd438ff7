package storage

import (
	"encoding/json"
	"time"
)

// Exchange is one classified user/assistant interaction. Result holds the
// normalized variant as JSON so event/task records can later be re-read for
// reminder dispatch.
type Exchange struct {
	Timestamp   time.Time       `json:"timestamp"`
	UserID      int64           `json:"user_id"`
	UserMessage string          `json:"user_message"`
	Kind        string          `json:"kind"`
	Reply       string          `json:"reply"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Recorder abstracts persistence of exchanges. AppendExchange must
// atomically append; LoadExchanges returns records in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendExchange(ex Exchange) error
	LoadExchanges() ([]Exchange, error)
}
