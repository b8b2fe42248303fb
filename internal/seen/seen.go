// Package seen keeps a redis-backed record of when each nick last spoke.
// It backs the demo bot's !seen command.
package seen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "seen:"
	ttl       = 30 * 24 * time.Hour
)

// Store records last-seen timestamps in redis.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// New connects to redis at the given URL (redis://host:port/db) and verifies
// the connection with a ping.
func New(url string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Store{client: client, logger: logger}, nil
}

// Close releases the redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Touch records that nick spoke just now. Failures are logged, not
// returned: the tracker must never break message handling.
func (s *Store) Touch(ctx context.Context, nick string) {
	key := keyPrefix + strings.ToLower(nick)
	if err := s.client.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		s.logger.Warn("seen update failed", zap.String("nick", nick), zap.Error(err))
	}
}

// LastSeen returns when nick last spoke. ok is false when the nick is
// unknown.
func (s *Store) LastSeen(ctx context.Context, nick string) (t time.Time, ok bool, err error) {
	key := keyPrefix + strings.ToLower(nick)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading seen record: %w", err)
	}
	t, err = time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt seen record for %s: %w", nick, err)
	}
	return t, true, nil
}
