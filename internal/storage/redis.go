package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"solanaSniper/internal/model"
)

// RedisPublisher republishes records on Redis pub/sub channels as msgpack
// payloads, using the JSON field names.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "sniper"
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// TransactionsChannel is the channel enriched transactions are published on.
func (p *RedisPublisher) TransactionsChannel() string {
	return p.prefix + ":transactions"
}

// AccountsChannel is the channel account updates are published on.
func (p *RedisPublisher) AccountsChannel() string {
	return p.prefix + ":accounts"
}

func (p *RedisPublisher) PutTransaction(ctx context.Context, tx model.TransactionRecord) error {
	return p.publish(ctx, p.TransactionsChannel(), tx)
}

func (p *RedisPublisher) PutAccountUpdate(ctx context.Context, update model.AccountUpdate) error {
	return p.publish(ctx, p.AccountsChannel(), update)
}

func (p *RedisPublisher) publish(ctx context.Context, channel string, value interface{}) error {
	payload, err := encodeMsgpack(value)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// encodeMsgpack encodes value with its json struct tags.
func encodeMsgpack(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("encode msgpack: %w", err)
	}
	return buf.Bytes(), nil
}
