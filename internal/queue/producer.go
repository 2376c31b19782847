package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Producer publishes conversion results to the result stream.
type Producer struct {
	redis  *redis.Client
	stream string
	logger zerolog.Logger
}

func NewProducer(client *redis.Client, stream string, logger zerolog.Logger) *Producer {
	return &Producer{
		redis:  client,
		stream: stream,
		logger: logger.With().Str("component", "result_producer").Logger(),
	}
}

// PublishResult appends a result entry to the stream.
func (p *Producer) PublishResult(ctx context.Context, result ConvertResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	id, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{bodyField: string(body)},
	}).Result()
	if err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	p.logger.Info().
		Str("task_id", result.TaskID).
		Str("status", result.Status).
		Str("msg_id", id).
		Int("questions", len(result.Result)).
		Msg("result published")
	return nil
}
