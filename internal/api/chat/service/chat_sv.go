package chatService

import (
	"errors"
	"strings"
	"time"

	"DrunkDetect/internal/api/chat"
	chatRepository "DrunkDetect/internal/api/chat/repository"
	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/llm"
	"DrunkDetect/pkg/log"
	"DrunkDetect/pkg/markdown"

	"golang.org/x/net/context"
)

func (s *chatService) CreateSession(ctx context.Context) (*entity.ChatSession, error) {
	now := s.now()

	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Error("[chatService.CreateSession] failed to generate session id")
		return nil, chat.ErrInternalServerError
	}

	session := entity.ChatSession{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []entity.ChatMessage{
			botMessage(chat.Greeting, now, true, false),
		},
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *chatService) GetSession(ctx context.Context, id string) (*entity.ChatSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &session, nil
}

func (s *chatService) SendMessage(ctx context.Context, id string, message string) (*chat.SendMessageResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, chat.ErrEmptyMessage
	}

	release, ok := s.guard.TryAcquire("chat:" + id)
	if !ok {
		return nil, chat.ErrRequestInProgress
	}
	defer release()

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	history := BuildHistory(session.Messages)

	session.Messages = append(session.Messages, entity.ChatMessage{
		Sender:    entity.ChatSenderUser,
		Text:      message,
		HTML:      markdown.RenderInline(message),
		CreatedAt: s.now(),
	})
	session.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, mapRepoError(err)
	}

	reply := s.ask(ctx, history, message)
	session.Messages = append(session.Messages, reply)
	session.UpdatedAt = reply.CreatedAt

	// Update fails if the session was ended while the model was answering.
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, mapRepoError(err)
	}

	return &chat.SendMessageResponse{
		Reply:   reply,
		Session: session,
	}, nil
}

func (s *chatService) EndSession(ctx context.Context, id string) error {
	return mapRepoError(s.repo.Delete(ctx, id))
}

func (s *chatService) ask(ctx context.Context, history []llm.Turn, message string) entity.ChatMessage {
	remoteCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	text, err := s.model.Chat(remoteCtx, chat.SystemInstruction, history, message)
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		log.WithRequestID(ctx).Warn("Remote chat returned no text")
		return botMessage(chat.FallbackEmptyChat, s.now(), false, true)
	case err != nil:
		log.WithRequestID(ctx).WithError(err).Error("Remote chat failed")
		return botMessage(chat.FallbackChatError, s.now(), false, true)
	case strings.TrimSpace(text) == "":
		return botMessage(chat.FallbackEmptyChat, s.now(), false, true)
	default:
		return botMessage(text, s.now(), false, false)
	}
}

// BuildHistory returns the completed exchanges the model should remember.
// The greeting and any exchange answered by a fallback are left out, so a
// failed turn is never replayed to the model.
func BuildHistory(messages []entity.ChatMessage) []llm.Turn {
	var history []llm.Turn

	for i := 0; i+1 < len(messages); i++ {
		user, bot := messages[i], messages[i+1]
		if user.Sender != entity.ChatSenderUser || bot.Sender != entity.ChatSenderBot {
			continue
		}
		if bot.Fallback || bot.Greeting {
			continue
		}

		history = append(history,
			llm.Turn{Role: llm.RoleUser, Text: user.Text},
			llm.Turn{Role: llm.RoleModel, Text: bot.Text},
		)
		i++
	}

	return history
}

func botMessage(text string, at time.Time, greeting, fallback bool) entity.ChatMessage {
	return entity.ChatMessage{
		Sender:    entity.ChatSenderBot,
		Text:      text,
		HTML:      markdown.RenderInline(text),
		CreatedAt: at,
		Greeting:  greeting,
		Fallback:  fallback,
	}
}

func mapRepoError(err error) error {
	if errors.Is(err, chatRepository.ErrSessionNotFound) {
		return chat.ErrSessionNotFound
	}
	return err
}
