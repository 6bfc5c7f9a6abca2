package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/simshi01/thansgiving-day/app/models"
)

// activeKey is a sorted set of active message ids scored by creation time
// in unix milliseconds.
const activeKey = "messages:active"

func messageKey(id string) string {
	return fmt.Sprintf("message(%s)", id)
}

// RedisDriver keeps each message in a hash and orders the active ones in
// a sorted set.
type RedisDriver struct {
	connection *redis.Client
	now        func() time.Time
}

func NewRedisDriver(addr string, password string, defaultDb int, opts ...Option) *RedisDriver {
	o := buildOptions(opts)
	return &RedisDriver{
		connection: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       defaultDb,
		}),
		now: o.now,
	}
}

// Ping checks the connection.
func (rd *RedisDriver) Ping(ctx context.Context) error {
	if err := rd.connection.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("db: redis ping: %w", err)
	}
	return nil
}

func (rd *RedisDriver) CreateMessage(ctx context.Context, text string, x, y *int, duration float64) (models.Message, error) {
	msg := models.Message{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: rd.now().UTC(),
		IsActive:  true,
		PositionX: x,
		PositionY: y,
		Duration:  duration,
	}

	_, err := rd.connection.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, messageKey(msg.ID), map[string]interface{}{
			"id":        msg.ID,
			"text":      msg.Text,
			"createdAt": msg.CreatedAt.UnixMilli(),
			"isActive":  1,
			"positionX": formatPosition(x),
			"positionY": formatPosition(y),
			"duration":  strconv.FormatFloat(duration, 'f', -1, 64),
		})
		pipe.ZAdd(ctx, activeKey, &redis.Z{
			Score:  float64(msg.CreatedAt.UnixMilli()),
			Member: msg.ID,
		})
		return nil
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("db: %w: %w", ErrMessageNotCreated, err)
	}

	// Read back at the stored precision.
	msg.CreatedAt = time.UnixMilli(msg.CreatedAt.UnixMilli()).UTC()
	return msg, nil
}

func (rd *RedisDriver) GetMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		return []models.Message{}, nil
	}
	ids, err := rd.connection.ZRevRange(ctx, activeKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("db: list messages: %w", err)
	}
	return rd.load(ctx, ids)
}

func (rd *RedisDriver) GetMessagesSince(ctx context.Context, since time.Time) ([]models.Message, error) {
	ids, err := rd.connection.ZRangeByScore(ctx, activeKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("db: list messages since %s: %w", since.Format(time.RFC3339), err)
	}
	return rd.load(ctx, ids)
}

func (rd *RedisDriver) GetAllMessages(ctx context.Context) ([]models.Message, error) {
	ids, err := rd.connection.ZRange(ctx, activeKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("db: list all messages: %w", err)
	}
	return rd.load(ctx, ids)
}

func (rd *RedisDriver) DeleteMessage(ctx context.Context, id string) error {
	var deleted *redis.IntCmd
	_, err := rd.connection.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, messageKey(id))
		pipe.ZRem(ctx, activeKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("db: delete message %s: %w", id, err)
	}
	if deleted.Val() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (rd *RedisDriver) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ids, err := rd.connection.ZRangeByScore(ctx, activeKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("db: deactivate messages: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	_, err = rd.connection.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.HSet(ctx, messageKey(id), "isActive", 0)
			pipe.ZRem(ctx, activeKey, id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db: deactivate messages: %w", err)
	}
	return int64(len(ids)), nil
}

func (rd *RedisDriver) Close() error {
	return rd.connection.Close()
}

// load fetches hashes for ids in order, skipping ids whose hash is gone.
func (rd *RedisDriver) load(ctx context.Context, ids []string) ([]models.Message, error) {
	msgs := make([]models.Message, 0, len(ids))
	if len(ids) == 0 {
		return msgs, nil
	}

	cmds := make([]*redis.StringStringMapCmd, len(ids))
	_, err := rd.connection.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, messageKey(id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("db: load messages: %w", err)
	}

	for _, cmd := range cmds {
		val := cmd.Val()
		if len(val) == 0 {
			continue
		}
		msgs = append(msgs, parseMessage(val))
	}
	return msgs, nil
}

func parseMessage(val map[string]string) models.Message {
	createdAt, _ := strconv.ParseInt(val["createdAt"], 10, 64)
	duration, _ := strconv.ParseFloat(val["duration"], 64)
	return models.Message{
		ID:        val["id"],
		Text:      val["text"],
		CreatedAt: time.UnixMilli(createdAt).UTC(),
		IsActive:  val["isActive"] == "1",
		PositionX: parsePosition(val["positionX"]),
		PositionY: parsePosition(val["positionY"]),
		Duration:  duration,
	}
}

func formatPosition(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func parsePosition(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
