package infra_redis_codes

import (
	"context"

	"github.com/go-redis/redis"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

// Driver keeps the set of reserved room codes in Redis so instances never
// hand out the same code twice.
type Driver struct {
	client *redis.Client
	key    string
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

// Reserve claims the code. Returns false when the code is already taken.
func (d *Driver) Reserve(ctx context.Context, code model.RoomCode) (bool, error) {
	if code == model.EmptyRoomCode {
		return false, nil
	}

	added, err := d.client.SAdd(d.key, string(code)).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (d *Driver) Release(ctx context.Context, code model.RoomCode) error {
	if code == model.EmptyRoomCode {
		return nil
	}

	if err := d.client.SRem(d.key, string(code)).Err(); err != nil {
		return err
	}
	return nil
}
