package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// BackendRedis names the Redis backend.
const BackendRedis = "redis"

const (
	fieldDescription     = "description"
	fieldSchedule        = "schedule"
	fieldMaxParticipants = "max_participants"

	scriptNotFound  = -1
	scriptConflict  = -2
	scriptFull      = -3
	enforceCapacity = "1"
)

// seedScript writes an activity only when its meta hash is missing.
// KEYS: meta, participants list, members set. ARGV: description, schedule, max, emails...
var seedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'description', ARGV[1], 'schedule', ARGV[2], 'max_participants', ARGV[3])
for i = 4, #ARGV do
  if redis.call('SADD', KEYS[3], ARGV[i]) == 1 then
    redis.call('RPUSH', KEYS[2], ARGV[i])
  end
end
return 1
`)

// signupScript KEYS: meta, participants list, members set. ARGV: email, enforce flag.
var signupScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
if redis.call('SISMEMBER', KEYS[3], ARGV[1]) == 1 then
  return -2
end
if ARGV[2] == '1' then
  local max = tonumber(redis.call('HGET', KEYS[1], 'max_participants'))
  if max and redis.call('LLEN', KEYS[2]) >= max then
    return -3
  end
end
redis.call('SADD', KEYS[3], ARGV[1])
return redis.call('RPUSH', KEYS[2], ARGV[1])
`)

// unregisterScript KEYS: meta, participants list, members set. ARGV: email.
var unregisterScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
if redis.call('SREM', KEYS[3], ARGV[1]) == 0 then
  return -2
end
redis.call('LREM', KEYS[2], 1, ARGV[1])
return redis.call('LLEN', KEYS[2])
`)

// RedisConfig holds connection settings for NewRedisClient.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient builds a client with conservative timeouts.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// RedisStore keeps the directory in Redis so several replicas share one roster.
//
// Per activity it uses a hash for metadata, a list for signup order and a set
// for membership. Every mutation is a single Lua script, which Redis runs atomically.
type RedisStore struct {
	client redis.UniversalClient
	names  []string
	opts   options
	log    logger.Logger
}

// NewRedisStore pings the server and seeds every activity of seed that is not
// already present. Existing rosters are left untouched.
func NewRedisStore(ctx context.Context, client redis.UniversalClient, seed model.Directory, opts ...Option) (*RedisStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(seed) == 0 {
		return nil, ErrEmptyDirectory
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}

	s := &RedisStore{
		client: client,
		names:  seed.Names(),
		opts:   o,
		log:    o.logger.Named("redis_store"),
	}

	seeded := 0
	for _, name := range s.names {
		a := seed[name]
		if err := a.Validate(name); err != nil {
			return nil, err
		}
		args := make([]any, 0, 3+len(a.Participants))
		args = append(args, a.Description, a.Schedule, a.MaxParticipants)
		for _, p := range a.Participants {
			args = append(args, p)
		}
		n, err := seedScript.Run(ctx, client, s.keys(name), args...).Int()
		if err != nil {
			return nil, fmt.Errorf("%w: seed %q: %w", ErrUnavailable, name, err)
		}
		seeded += n
	}

	s.log.Info(ctx, "redis store ready",
		logger.Int("activities", len(s.names)),
		logger.Int("seeded", seeded),
		logger.String("prefix", o.keyPrefix))
	return s, nil
}

func (s *RedisStore) metaKey(name string) string {
	return s.opts.keyPrefix + ":activity:" + name
}

func (s *RedisStore) keys(name string) []string {
	meta := s.metaKey(name)
	return []string{meta, meta + ":participants", meta + ":members"}
}

func (s *RedisStore) known(name string) bool {
	i := sort.SearchStrings(s.names, name)
	return i < len(s.names) && s.names[i] == name
}

// List reads every activity in one pipeline.
func (s *RedisStore) List(ctx context.Context) (model.Directory, error) {
	metas := make([]*redis.MapStringStringCmd, len(s.names))
	lists := make([]*redis.StringSliceCmd, len(s.names))

	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, name := range s.names {
			k := s.keys(name)
			metas[i] = p.HGetAll(ctx, k[0])
			lists[i] = p.LRange(ctx, k[1], 0, -1)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: list: %w", ErrUnavailable, err)
	}

	out := make(model.Directory, len(s.names))
	for i, name := range s.names {
		meta := metas[i].Val()
		if len(meta) == 0 {
			s.log.Warn(ctx, "activity missing from redis", logger.String("activity", name))
			continue
		}
		maxParticipants, convErr := strconv.Atoi(meta[fieldMaxParticipants])
		if convErr != nil {
			return nil, fmt.Errorf("activity %q: bad max_participants %q: %w", name, meta[fieldMaxParticipants], convErr)
		}
		a := model.Activity{
			Description:     meta[fieldDescription],
			Schedule:        meta[fieldSchedule],
			MaxParticipants: maxParticipants,
			Participants:    lists[i].Val(),
		}
		out[name] = a.Clone()
	}
	return out, nil
}

// Signup appends email to the named activity.
func (s *RedisStore) Signup(ctx context.Context, activity, email string) (int, error) {
	if !s.known(activity) {
		return 0, fmt.Errorf("signup %q: %w", activity, model.ErrActivityNotFound)
	}
	flag := "0"
	if s.opts.enforceCapacity {
		flag = enforceCapacity
	}
	n, err := signupScript.Run(ctx, s.client, s.keys(activity), email, flag).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: signup %q: %w", ErrUnavailable, activity, err)
	}
	switch n {
	case scriptNotFound:
		return 0, fmt.Errorf("signup %q: %w", activity, model.ErrActivityNotFound)
	case scriptConflict:
		return 0, fmt.Errorf("signup %q: %w", activity, model.ErrAlreadySignedUp)
	case scriptFull:
		return 0, fmt.Errorf("signup %q: %w", activity, model.ErrActivityFull)
	}
	return n, nil
}

// Unregister removes one occurrence of email from the named activity.
func (s *RedisStore) Unregister(ctx context.Context, activity, email string) (int, error) {
	if !s.known(activity) {
		return 0, fmt.Errorf("unregister %q: %w", activity, model.ErrActivityNotFound)
	}
	n, err := unregisterScript.Run(ctx, s.client, s.keys(activity), email).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: unregister %q: %w", ErrUnavailable, activity, err)
	}
	switch n {
	case scriptNotFound:
		return 0, fmt.Errorf("unregister %q: %w", activity, model.ErrActivityNotFound)
	case scriptConflict:
		return 0, fmt.Errorf("unregister %q: %w", activity, model.ErrNotSignedUp)
	}
	return n, nil
}

// Count returns the number of activities this store serves.
func (s *RedisStore) Count(_ context.Context) int {
	return len(s.names)
}

// Backend returns BackendRedis.
func (s *RedisStore) Backend() string { return BackendRedis }

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
