package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// New dials Redis. The connection backs the best-effort event emitter only;
// callers must tolerate a nil return when Redis is unreachable.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
