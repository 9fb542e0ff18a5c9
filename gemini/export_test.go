package gemini

import (
	"log/slog"
	"time"
)

// NewLocal builds a Client without a genai connection, for exercising
// the transcript-backed paths in tests.
func NewLocal(dir string) *Client {
	return &Client{
		model:  defaultModel,
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
}

var TranslateErr = translateErr
