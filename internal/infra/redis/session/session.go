package infra_identity_cache

import (
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

var ErrBadRecord = errors.New("malformed identity record")

// Driver maps issued player tokens to their identity. Records expire on
// their own so abandoned tokens never need explicit cleanup.
type Driver struct {
	client *redis.Client
	prefix string
}

func New(
	client *redis.Client,
	prefix string,
) *Driver {
	return &Driver{
		client: client,
		prefix: prefix,
	}
}

func (d *Driver) Put(token string, user model.User, ttl time.Duration) error {
	record := user.ID.String() + "|" + user.Username
	if err := d.client.Set(d.fullKey(token), record, ttl).Err(); err != nil {
		return err
	}

	return nil
}

// Resolve returns the user behind a token. A missing or expired token
// resolves to the zero User with a nil error.
func (d *Driver) Resolve(token string) (model.User, error) {
	record, err := d.client.Get(d.fullKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return model.User{}, nil
		}
		return model.User{}, err
	}

	id, username, ok := strings.Cut(record, "|")
	if !ok {
		return model.User{}, ErrBadRecord
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, errors.Join(ErrBadRecord, err)
	}

	return model.User{ID: userID, Username: username}, nil
}

func (d *Driver) Drop(token string) error {
	return d.client.Del(d.fullKey(token)).Err()
}

func (d *Driver) fullKey(token string) string {
	if d.prefix != "" {
		return d.prefix + ":" + token
	}
	return token
}
