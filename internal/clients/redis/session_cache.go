package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
	"github.com/yungbote/braincell-backend/internal/utils"
)

// SessionCache keeps a rolling conversation window per session in Redis.
// History is a list of JSON HistoryEntry values, oldest first, trimmed to
// the last maxCachedEntries.
type SessionCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

const maxCachedEntries = 16

// NewSessionCache returns (nil, nil) when REDIS_ADDR is unset; the cache is
// an optional collaborator.
func NewSessionCache(log *logger.Logger) (*SessionCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	ttlMin := utils.GetEnvAsInt("SESSION_CACHE_TTL_MINUTES", 120, log)
	if ttlMin <= 0 {
		ttlMin = 120
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &SessionCache{
		log: log.With("client", "RedisSessionCache"),
		rdb: rdb,
		ttl: time.Duration(ttlMin) * time.Minute,
	}, nil
}

func historyKey(sessionID string) string  { return "session:" + sessionID + ":history" }
func lastTypeKey(sessionID string) string { return "session:" + sessionID + ":lastResponseType" }

func (c *SessionCache) History(ctx context.Context, sessionID string) ([]types.HistoryEntry, error) {
	raws, err := c.rdb.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	out := make([]types.HistoryEntry, 0, len(raws))
	for _, raw := range raws {
		var entry types.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			c.log.Warn("bad cached history entry", "session_id", sessionID, "error", err)
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (c *SessionCache) LastResponseType(ctx context.Context, sessionID string) (*types.ResponseType, error) {
	raw, err := c.rdb.Get(ctx, lastTypeKey(sessionID)).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	if t, ok := types.ParseResponseType(raw); ok {
		return &t, nil
	}
	return nil, nil
}

func (c *SessionCache) AppendTurn(ctx context.Context, sessionID, query, responseContent string, responseType types.ResponseType) error {
	userRaw, err := json.Marshal(types.HistoryEntry{Role: "user", Content: query})
	if err != nil {
		return err
	}
	assistantRaw, err := json.Marshal(types.HistoryEntry{Role: "assistant", Content: responseContent})
	if err != nil {
		return err
	}

	hk := historyKey(sessionID)
	pipe := c.rdb.TxPipeline()
	pipe.RPush(ctx, hk, userRaw, assistantRaw)
	pipe.LTrim(ctx, hk, -maxCachedEntries, -1)
	pipe.Expire(ctx, hk, c.ttl)
	pipe.Set(ctx, lastTypeKey(sessionID), string(responseType), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

func (c *SessionCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
