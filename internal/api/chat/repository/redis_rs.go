package chatRepository

import (
	"errors"
	"time"

	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/redis"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type redisRepository struct {
	client redis.IRedis
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedis stores sessions as JSON under chat:session:<id>, refreshing the TTL on every save.
func NewRedis(client redis.IRedis, ttl time.Duration, log *logrus.Logger) Repository {
	return &redisRepository{
		client: client,
		ttl:    ttl,
		log:    logger(log),
	}
}

func (r *redisRepository) Save(ctx context.Context, session entity.ChatSession) error {
	if err := r.client.SetJSON(ctx, sessionKey(session.ID), session, r.ttl); err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("[chatRepository.Save] failed to store session")
		return err
	}
	return nil
}

func (r *redisRepository) Update(ctx context.Context, session entity.ChatSession) error {
	if err := r.client.UpdateJSON(ctx, sessionKey(session.ID), session, r.ttl); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("[chatRepository.Update] failed to store session")
		return err
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, id string) (entity.ChatSession, error) {
	var session entity.ChatSession
	if err := r.client.GetJSON(ctx, sessionKey(id), &session); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return entity.ChatSession{}, ErrSessionNotFound
		}
		return entity.ChatSession{}, err
	}
	return session, nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, sessionKey(id)); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}
