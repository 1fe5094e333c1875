package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// ContentCacheKey holds the cached content snapshot JSON.
const ContentCacheKey = "content:snapshot"

// EstimateChannel is the pub/sub channel the external lead notifier
// subscribes to. Each message is the JSON of one estimate request.
const EstimateChannel = "estimates:new"
