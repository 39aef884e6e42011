package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// RedisConfig configures the Redis-backed journal.
type RedisConfig struct {
	URL              string        `mapstructure:"url"`
	Prefix           string        `mapstructure:"prefix"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"` // consecutive failures before the breaker opens
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`      // how long the breaker stays open
}

// DefaultRedisConfig returns local defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		URL:              "redis://localhost:6379/0",
		Prefix:           "anamnesis",
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// RedisStore keeps each concern as a Redis list of JSON records. Every
// call goes through a circuit breaker so an unreachable server fails fast.
type RedisStore struct {
	client *redis.Client
	prefix string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// OpenRedis connects to cfg.URL and verifies the connection.
func OpenRedis(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, cfg, logger), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, cfg RedisConfig, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultRedisConfig().Prefix
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultRedisConfig().FailureThreshold
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = DefaultRedisConfig().OpenTimeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-journal",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &RedisStore{client: client, prefix: cfg.Prefix, cb: cb, logger: logger}
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Journal returns the Redis-backed journal.
func (s *RedisStore) Journal() Journal {
	return &redisJournal{s}
}

// SnapshotRepo returns the Redis-backed snapshot repo.
func (s *RedisStore) SnapshotRepo() SnapshotRepo {
	return &redisSnapshots{s}
}

func (s *RedisStore) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// exec runs op through the breaker.
func (s *RedisStore) exec(op func() (any, error)) (any, error) {
	res, err := s.cb.Execute(func() (interface{}, error) { return op() })
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return res, nil
}

func (s *RedisStore) nextSeq(ctx context.Context) (int64, error) {
	return s.client.Incr(ctx, s.key("seq")).Result()
}

type redisJournal struct{ s *RedisStore }

func (j *redisJournal) Append(ctx context.Context, concern Concern, sessionID string, payload any) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal %s record: %w", concern, err)
	}

	res, err := j.s.exec(func() (any, error) {
		seq, err := j.s.nextSeq(ctx)
		if err != nil {
			return nil, err
		}
		rec, err := json.Marshal(Record{
			Sequence:  seq,
			Concern:   concern,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
			Payload:   b,
		})
		if err != nil {
			return nil, err
		}
		if err := j.s.client.RPush(ctx, j.s.key("journal", string(concern)), rec).Err(); err != nil {
			return nil, err
		}
		return seq, nil
	})
	if err != nil {
		return 0, fmt.Errorf("append %s record: %w", concern, err)
	}
	return res.(int64), nil
}

func (j *redisJournal) Query(ctx context.Context, concern Concern, opts QueryOpts) ([]Record, error) {
	res, err := j.s.exec(func() (any, error) {
		return j.s.client.LRange(ctx, j.s.key("journal", string(concern)), 0, -1).Result()
	})
	if err != nil {
		return nil, fmt.Errorf("query %s records: %w", concern, err)
	}

	var out []Record
	for _, raw := range res.([]string) {
		var r Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			j.s.logger.Warn("skipping malformed journal record", zap.String("concern", string(concern)), zap.Error(err))
			continue
		}
		if !matches(r, opts) {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (j *redisJournal) Count(ctx context.Context, concern Concern) (int, error) {
	res, err := j.s.exec(func() (any, error) {
		return j.s.client.LLen(ctx, j.s.key("journal", string(concern))).Result()
	})
	if err != nil {
		return 0, fmt.Errorf("count %s records: %w", concern, err)
	}
	return int(res.(int64)), nil
}

func matches(r Record, opts QueryOpts) bool {
	switch {
	case opts.After > 0 && r.Sequence <= opts.After:
		return false
	case opts.SessionID != "" && r.SessionID != opts.SessionID:
		return false
	case !opts.From.IsZero() && r.Timestamp.Before(opts.From):
		return false
	case !opts.To.IsZero() && r.Timestamp.After(opts.To):
		return false
	}
	return true
}

type redisSnapshots struct{ s *RedisStore }

func (r *redisSnapshots) Save(ctx context.Context, snap *Snapshot) error {
	_, err := r.s.exec(func() (any, error) {
		if snap.Sequence == 0 {
			seq, err := r.s.nextSeq(ctx)
			if err != nil {
				return nil, err
			}
			snap.Sequence = seq
		}
		if snap.Timestamp.IsZero() {
			snap.Timestamp = time.Now().UTC()
		}
		snap.ID = int(snap.Sequence)
		b, err := json.Marshal(snap)
		if err != nil {
			return nil, err
		}
		return nil, r.s.client.LPush(ctx, r.s.key("snapshots"), b).Err()
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *redisSnapshots) Latest(ctx context.Context) (*Snapshot, error) {
	res, err := r.s.exec(func() (any, error) {
		raw, err := r.s.client.LIndex(ctx, r.s.key("snapshots"), 0).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return raw, err
	})
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	raw := res.(string)
	if raw == "" {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (r *redisSnapshots) Prune(ctx context.Context, keep int) error {
	_, err := r.s.exec(func() (any, error) {
		return nil, r.s.client.LTrim(ctx, r.s.key("snapshots"), 0, int64(keep-1)).Err()
	})
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// Reset deletes every key under the store's prefix.
func (s *RedisStore) Reset(ctx context.Context) error {
	keys := []string{s.key("seq"), s.key("snapshots")}
	for _, c := range AllConcerns() {
		keys = append(keys, s.key("journal", string(c)))
	}
	_, err := s.exec(func() (any, error) {
		return nil, s.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}
