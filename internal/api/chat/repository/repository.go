package chatRepository

import (
	"errors"
	"os"
	"time"

	"DrunkDetect/internal/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const DefaultSessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("chat session not found")

type Repository interface {
	Save(ctx context.Context, session entity.ChatSession) error
	// Update stores session only if it has not been deleted or expired.
	Update(ctx context.Context, session entity.ChatSession) error
	Get(ctx context.Context, id string) (entity.ChatSession, error)
	Delete(ctx context.Context, id string) error
}

// SessionTTLFromEnv reads CHAT_SESSION_TTL as a Go duration.
func SessionTTLFromEnv() time.Duration {
	ttl, err := time.ParseDuration(os.Getenv("CHAT_SESSION_TTL"))
	if err != nil || ttl <= 0 {
		return DefaultSessionTTL
	}
	return ttl
}

func sessionKey(id string) string {
	return "chat:session:" + id
}

func cloneSession(s entity.ChatSession) entity.ChatSession {
	s.Messages = append([]entity.ChatMessage(nil), s.Messages...)
	return s
}

func logger(log *logrus.Logger) *logrus.Logger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
