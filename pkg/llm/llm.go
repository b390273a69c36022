// Package llm describes the hosted generative model the service leans on for
// photo analysis and chat.
package llm

import (
	"context"
	"errors"
	"os"
	"time"
)

var ErrEmptyResponse = errors.New("model returned no text")

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of a prior exchange.
type Turn struct {
	Role Role
	Text string
}

type IModel interface {
	AnalyzeImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error)
	Chat(ctx context.Context, systemInstruction string, history []Turn, message string) (string, error)
	Close() error
}

const DefaultTimeout = 60 * time.Second

// TimeoutFromEnv reads REMOTE_TIMEOUT as a Go duration.
func TimeoutFromEnv() time.Duration {
	d, err := time.ParseDuration(os.Getenv("REMOTE_TIMEOUT"))
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}
