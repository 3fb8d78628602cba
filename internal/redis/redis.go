package redis

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Client struct {
	*goredis.Client
}

// New builds the shared Redis client from a REDIS_URL connection string.
// Connectivity is probed in the background: a Redis outage at boot is
// logged but does not prevent the process from serving. Requests that
// need the store fail individually instead.
func New(url string, log *slog.Logger) (*Client, error) {

	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := goredis.NewClient(opts)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable at startup, sessions will fail until it recovers",
				"error", err)
			return
		}
		log.Info("redis ready")
	}()

	return &Client{Client: client}, nil

}
