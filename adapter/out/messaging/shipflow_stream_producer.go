// Package messaging provides Redis Streams adapters.
package messaging

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"

	"github.com/redis/go-redis/v9"
)

// Stream names
const (
	StreamEmailIngest             = "email:ingest"
	StreamClassificationPublished = "classification:published"
	StreamWorkflowTransitioned    = "workflow:transitioned"
)

// RedisProducer implements out.MessageProducer using Redis Streams.
type RedisProducer struct {
	client *redis.Client
}

// NewRedisProducer creates a new RedisProducer.
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client}
}

// PublishEmailIngest queues one email for classification.
func (p *RedisProducer) PublishEmailIngest(ctx context.Context, job *out.EmailIngestJob) error {
	return p.publish(ctx, StreamEmailIngest, job)
}

// PublishClassification announces a stored classification result.
func (p *RedisProducer) PublishClassification(ctx context.Context, output *domain.ClassificationOutput) error {
	return p.publish(ctx, StreamClassificationPublished, output)
}

// PublishTransition announces the outcome of a transition attempt.
func (p *RedisProducer) PublishTransition(ctx context.Context, event *out.TransitionEvent) error {
	return p.publish(ctx, StreamWorkflowTransitioned, event)
}

// publish publishes a job to a stream.
func (p *RedisProducer) publish(ctx context.Context, stream string, job interface{}) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", stream, err)
	}

	return nil
}

// Ensure RedisProducer implements out.MessageProducer
var _ out.MessageProducer = (*RedisProducer)(nil)
