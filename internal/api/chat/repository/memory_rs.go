package chatRepository

import (
	"time"

	"DrunkDetect/internal/entity"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type memoryRepository struct {
	store *cache.Cache
	log   *logrus.Logger
}

// NewMemory keeps sessions in process. Used when no Redis is configured.
func NewMemory(ttl time.Duration, log *logrus.Logger) Repository {
	r := &memoryRepository{
		store: cache.New(ttl, ttl/2),
		log:   logger(log),
	}

	r.store.OnEvicted(func(key string, _ interface{}) {
		r.log.WithField("key", key).Debug("Chat session removed")
	})

	return r
}

func (r *memoryRepository) Save(ctx context.Context, session entity.ChatSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.SetDefault(sessionKey(session.ID), cloneSession(session))
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, session entity.ChatSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.Replace(sessionKey(session.ID), cloneSession(session), cache.DefaultExpiration); err != nil {
		return ErrSessionNotFound
	}
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id string) (entity.ChatSession, error) {
	if err := ctx.Err(); err != nil {
		return entity.ChatSession{}, err
	}

	value, ok := r.store.Get(sessionKey(id))
	if !ok {
		return entity.ChatSession{}, ErrSessionNotFound
	}
	return cloneSession(value.(entity.ChatSession)), nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, ok := r.store.Get(sessionKey(id)); !ok {
		return ErrSessionNotFound
	}
	r.store.Delete(sessionKey(id))
	return nil
}
