package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solartech-poc/solarbot/internal/agent/model"
	errx "github.com/solartech-poc/solarbot/internal/core/error"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

// RedisLeadRepository persists leads as hashes and their conversation
// history as JSON lists. A lead is created atomically through HSETNX on the
// stage field, so concurrent first messages for the same external id cannot
// produce duplicate records.
type RedisLeadRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisLeadRepository(rdb redis.Cmdable, ttl time.Duration) *RedisLeadRepository {
	return &RedisLeadRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisLeadRepository) leadKey(externalID string) string {
	return fmt.Sprintf("lead:%s", externalID)
}

func (r *RedisLeadRepository) messagesKey(externalID string) string {
	return fmt.Sprintf("lead:%s:messages", externalID)
}

func (r *RedisLeadRepository) GetOrCreate(ctx context.Context, externalID string) (*model.Lead, bool, error) {
	key := r.leadKey(externalID)

	// HSETNX on stage doubles as the existence check: exactly one concurrent
	// caller observes created=true.
	created, err := r.rdb.HSetNX(ctx, key, "stage", string(model.StageOnboarding)).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to create lead")
		return nil, false, errx.WrapRedis(err)
	}
	if created {
		fields := map[string]any{
			"external_id": externalID,
			"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := r.rdb.HSet(ctx, key, fields).Err(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to initialise lead fields")
			return nil, false, errx.WrapRedis(err)
		}
	}

	lead, err := r.load(ctx, externalID)
	if err != nil {
		return nil, false, err
	}
	return lead, created, nil
}

func (r *RedisLeadRepository) Update(ctx context.Context, externalID string, patch model.LeadPatch) (*model.Lead, error) {
	if patch.Empty() {
		return r.load(ctx, externalID)
	}

	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.Stage != nil {
		fields["stage"] = string(*patch.Stage)
	}

	key := r.leadKey(externalID)
	if err := r.rdb.HSet(ctx, key, fields).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to update lead")
		return nil, errx.WrapRedis(err)
	}
	return r.load(ctx, externalID)
}

func (r *RedisLeadRepository) load(ctx context.Context, externalID string) (*model.Lead, error) {
	key := r.leadKey(externalID)
	vals, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to load lead")
		return nil, errx.WrapRedis(err)
	}

	lead := &model.Lead{
		ExternalID: vals["external_id"],
		Name:       vals["name"],
		Email:      vals["email"],
		Stage:      model.Stage(vals["stage"]),
	}
	if lead.ExternalID == "" {
		lead.ExternalID = externalID
	}
	if lead.Stage == "" {
		lead.Stage = model.StageOnboarding
	}
	if ts := vals["created_at"]; ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			lead.CreatedAt = t
		}
	}
	return lead, nil
}

func (r *RedisLeadRepository) RecentMessages(ctx context.Context, externalID string, limit int) ([]model.ChatMessage, error) {
	key := r.messagesKey(externalID)
	if limit <= 0 {
		return nil, nil
	}

	// The tail of the list is already oldest-to-newest within the window.
	rows, err := r.rdb.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation history")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]model.ChatMessage, 0, len(rows))
	for i, s := range rows {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("external_id", externalID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (r *RedisLeadRepository) AppendExchange(ctx context.Context, externalID, userText, assistantText string) error {
	now := time.Now().UTC()
	userRaw, err := json.Marshal(model.ChatMessage{Role: model.RoleUser, Content: userText, CreatedAt: now})
	if err != nil {
		return fmt.Errorf("marshal user message: %w", err)
	}
	asstRaw, err := json.Marshal(model.ChatMessage{Role: model.RoleAssistant, Content: assistantText, CreatedAt: now})
	if err != nil {
		return fmt.Errorf("marshal assistant message: %w", err)
	}

	key := r.messagesKey(externalID)
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, userRaw)
	pipe.RPush(ctx, key, asstRaw)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to append exchange")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisLeadRepository) MessageCount(ctx context.Context, externalID string) (int, error) {
	key := r.messagesKey(externalID)
	n, err := r.rdb.LLen(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to count messages")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

var _ model.LeadRepository = (*RedisLeadRepository)(nil)
