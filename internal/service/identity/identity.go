package service_identity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrBadUsername  = errors.New("bad username")
	ErrUnknownToken = errors.New("unknown token")
)

const (
	defaultTokenTTL = 24 * time.Hour

	maxUsernameLen = 32
)

type IdentityCache interface {
	Put(token string, user model.User, ttl time.Duration) error
	Resolve(token string) (model.User, error)
}

// Service issues opaque player tokens and resolves them back to users.
// Tokens are the only identity a client ever holds.
type Service struct {
	cache IdentityCache
	ttl   time.Duration
}

func New(
	cache IdentityCache,
	ttl *time.Duration,
) *Service {
	if ttl == nil {
		t := defaultTokenTTL
		ttl = &t
	}

	return &Service{
		cache: cache,
		ttl:   *ttl,
	}
}

// Issue registers a fresh user for the given username and returns their
// token. The same username may be issued many times; identity is the ID.
func (s *Service) Issue(username string) (string, model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLen {
		return "", model.User{}, ErrBadUsername
	}

	user := model.User{
		ID:       uuid.New(),
		Username: username,
	}
	token := uuid.New().String()

	if err := s.cache.Put(token, user, s.ttl); err != nil {
		return "", model.User{}, errors.Join(ErrInternal, err)
	}

	return token, user, nil
}

func (s *Service) Resolve(token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrUnknownToken
	}

	user, err := s.cache.Resolve(token)
	if err != nil {
		return model.User{}, errors.Join(ErrInternal, err)
	}
	if user.ID == uuid.Nil {
		return model.User{}, ErrUnknownToken
	}

	return user, nil
}
