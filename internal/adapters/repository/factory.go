package repository

import (
	"context"
	"fmt"

	"github.com/okian/mergington/internal/domain/model"
)

// New builds the store named by backend, seeded from seed.
func New(ctx context.Context, backend string, seed model.Directory, redisCfg RedisConfig, opts ...Option) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(ctx, seed, opts...)
	case BackendRedis:
		client := NewRedisClient(redisCfg)
		s, err := NewRedisStore(ctx, client, seed, opts...)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
