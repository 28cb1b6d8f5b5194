package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/patrickwarner/pubreport/internal/token"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "session:"

// Hash fields of a stored session.
const (
	fieldAddress     = "address"
	fieldProfileID   = "profile_id"
	fieldAccessToken = "access_token"
	fieldCreatedAt   = "created_at"
)

// RedisStore keeps sessions in Redis hashes keyed by session id. The cookie
// holds the id signed with the store secret.
type RedisStore struct {
	Client     *redis.Client
	CookieName string
	Secret     []byte
	TTL        time.Duration
}

// InitRedisStore connects to Redis and returns a store.
func InitRedisStore(addr, cookieName string, secret []byte, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))

	return NewRedisStore(client, cookieName, secret, ttl), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, cookieName string, secret []byte, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, CookieName: cookieName, Secret: secret, TTL: ttl}
}

// Create stores s under a fresh id and returns the signed cookie value.
func (st *RedisStore) Create(ctx context.Context, s Session) (string, error) {
	if s.Address == "" {
		return "", fmt.Errorf("create session: address required")
	}
	s.ID = uuid.NewString()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	key := keyPrefix + s.ID
	pipe := st.Client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldAddress, s.Address,
		fieldProfileID, s.ProfileID,
		fieldAccessToken, s.AccessToken,
		fieldCreatedAt, strconv.FormatInt(s.CreatedAt.Unix(), 10),
	)
	if st.TTL > 0 {
		pipe.Expire(ctx, key, st.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token.Sign(s.ID, st.Secret)
}

// Load returns the session for a signed cookie value.
func (st *RedisStore) Load(ctx context.Context, cookieValue string) (*Session, error) {
	id, err := token.Verify(cookieValue, st.Secret, st.TTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
	}

	fields, err := st.Client.HGetAll(ctx, keyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 || fields[fieldAddress] == "" {
		return nil, ErrNoSession
	}

	s := &Session{
		ID:          id,
		Address:     fields[fieldAddress],
		ProfileID:   fields[fieldProfileID],
		AccessToken: fields[fieldAccessToken],
	}
	if ts, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64); err == nil {
		s.CreatedAt = time.Unix(ts, 0)
	}
	return s, nil
}

// Resolve implements Resolver by reading the session cookie.
func (st *RedisStore) Resolve(r *http.Request) (*Session, error) {
	c, err := r.Cookie(st.CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && c.Value == "") {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return st.Load(r.Context(), c.Value)
}

// Close shuts down the Redis client.
func (st *RedisStore) Close() {
	if st != nil && st.Client != nil {
		if err := st.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
