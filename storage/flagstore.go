package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"quoteme/config"
)

// FlagConfig configures the Redis connection for one-time OAuth flags.
type FlagConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	TTL      time.Duration
}

// FlagStore holds short-lived OAuth success flags in Redis. Each flag is
// written once by the callback handler and consumed at most once by the app
// polling /auth/check; Redis TTL handles flags nobody ever claims.
type FlagStore struct {
	client *redis.Client
	ttl    time.Duration
}

// OAuthFlag is the payload stored under a success key.
type OAuthFlag struct {
	Email     string `json:"user_email"`
	Sub       string `json:"user_sub"`
	CreatedAt int64  `json:"created_at"`
}

// NewFlagStore connects to Redis and verifies connectivity.
func NewFlagStore(cfg FlagConfig) (*FlagStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = config.OAuthFlagTTL
	}
	return &FlagStore{client: client, ttl: ttl}, nil
}

// Close closes the underlying Redis client.
func (f *FlagStore) Close() error {
	return f.client.Close()
}

// StoreSuccess writes a fresh success flag and returns its key. The key
// embeds a timestamp plus the tail of the Cognito subject so concurrent
// logins by different users never collide.
func (f *FlagStore) StoreSuccess(ctx context.Context, email, sub string) (string, error) {
	suffix := sub
	if len(sub) > 8 {
		suffix = sub[len(sub)-8:]
	}
	now := time.Now().Unix()
	key := fmt.Sprintf("%s%d_%s", config.OAuthFlagPrefix, now, suffix)

	payload, err := json.Marshal(OAuthFlag{Email: email, Sub: sub, CreatedAt: now})
	if err != nil {
		return "", fmt.Errorf("encode oauth flag: %w", err)
	}
	if err := f.client.Set(ctx, key, payload, f.ttl).Err(); err != nil {
		return "", fmt.Errorf("store oauth flag: %w", err)
	}
	return key, nil
}

// Consume atomically reads and deletes a success flag. Returns (nil, nil)
// when the key is missing, expired or already consumed; a malformed key is
// rejected without touching Redis.
func (f *FlagStore) Consume(ctx context.Context, key string) (*OAuthFlag, error) {
	if !strings.HasPrefix(key, config.OAuthFlagPrefix) {
		return nil, nil
	}

	val, err := f.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consume oauth flag: %w", err)
	}

	var flag OAuthFlag
	if err := json.Unmarshal([]byte(val), &flag); err != nil {
		return nil, fmt.Errorf("decode oauth flag: %w", err)
	}
	return &flag, nil
}
