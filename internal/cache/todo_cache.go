package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"gotodo/internal/model"
)

// TodoListCache keeps each user's default todo page in redis. Mutations for
// a user must call Invalidate, so a cached page only outlives the data by
// the TTL when no writes happen at all.
type TodoListCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewTodoListCache(client *redisv9.Client, ttl time.Duration) *TodoListCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TodoListCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *TodoListCache) GetList(ctx context.Context, userID uint) ([]model.Todo, bool, error) {
	raw, err := c.client.Get(ctx, c.listKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get todo list failed: %w", err)
	}

	var todos []model.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached todo list failed: %w", err)
	}
	return todos, true, nil
}

func (c *TodoListCache) SetList(ctx context.Context, userID uint, todos []model.Todo) error {
	payload, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("marshal todo list cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set todo list failed: %w", err)
	}
	return nil
}

func (c *TodoListCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.listKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete todo list failed: %w", err)
	}
	return nil
}

func (c *TodoListCache) listKey(userID uint) string {
	return fmt.Sprintf("todos:list:%d", userID)
}
