package chatService

import (
	"time"

	"DrunkDetect/internal/api/chat"
	chatRepository "DrunkDetect/internal/api/chat/repository"
	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/inflight"
	"DrunkDetect/pkg/llm"
	"DrunkDetect/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IChatService interface {
	CreateSession(ctx context.Context) (*entity.ChatSession, error)
	GetSession(ctx context.Context, id string) (*entity.ChatSession, error)
	SendMessage(ctx context.Context, id string, message string) (*chat.SendMessageResponse, error)
	EndSession(ctx context.Context, id string) error
}

type chatService struct {
	log           *logrus.Logger
	repo          chatRepository.Repository
	model         llm.IModel
	utils         utils.IUtils
	guard         *inflight.Guard
	remoteTimeout time.Duration
	now           func() time.Time
}

func NewChatService(
	log *logrus.Logger,
	repo chatRepository.Repository,
	model llm.IModel,
	utils utils.IUtils,
	guard *inflight.Guard,
	remoteTimeout time.Duration,
) IChatService {
	if remoteTimeout <= 0 {
		remoteTimeout = llm.DefaultTimeout
	}

	return &chatService{
		log:           log,
		repo:          repo,
		model:         model,
		utils:         utils,
		guard:         guard,
		remoteTimeout: remoteTimeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}
