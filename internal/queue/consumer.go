package queue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/questionhub/document-service/internal/extract"
)

// TaskHandler runs one conversion task to completion.
type TaskHandler interface {
	Process(ctx context.Context, task ConvertTask) ([]extract.QuestionRecord, error)
}

// ResultPublisher publishes finished results (implemented by Producer).
type ResultPublisher interface {
	PublishResult(ctx context.Context, result ConvertResult) error
}

// ConsumerOptions tunes the stream consumer.
type ConsumerOptions struct {
	TaskStream    string
	Group         string
	Consumer      string
	Block         time.Duration
	MaxDeliveries int64
	ClaimMinIdle  time.Duration
}

// Consumer reads conversion tasks from a Redis Stream consumer group.
//
// Semantics follow the usual at-least-once contract: an entry is acked only
// after its result was published. A failed entry stays pending and is
// re-claimed once idle; after MaxDeliveries attempts a failed result is
// published and the entry acked so a poison document cannot wedge the group.
type Consumer struct {
	redis     *redis.Client
	handler   TaskHandler
	publisher ResultPublisher
	opts      ConsumerOptions
	logger    zerolog.Logger
}

func NewConsumer(client *redis.Client, handler TaskHandler, publisher ResultPublisher, opts ConsumerOptions, logger zerolog.Logger) *Consumer {
	if opts.Consumer == "" {
		opts.Consumer = "worker-" + uuid.NewString()[:8]
	}
	if opts.Block <= 0 {
		opts.Block = 5 * time.Second
	}
	if opts.MaxDeliveries <= 0 {
		opts.MaxDeliveries = 3
	}
	if opts.ClaimMinIdle <= 0 {
		opts.ClaimMinIdle = 30 * time.Second
	}
	return &Consumer{
		redis:     client,
		handler:   handler,
		publisher: publisher,
		opts:      opts,
		logger:    logger.With().Str("component", "task_consumer").Str("consumer", opts.Consumer).Logger(),
	}
}

// Run blocks consuming tasks until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}
	c.logger.Info().
		Str("stream", c.opts.TaskStream).
		Str("group", c.opts.Group).
		Msg("consuming tasks")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.claimStale(ctx)

		res, err := c.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.opts.Group,
			Consumer: c.opts.Consumer,
			Streams:  []string{c.opts.TaskStream, ">"},
			Count:    1,
			Block:    c.opts.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // block timeout, idle
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.logger.Error().Err(err).Msg("stream read failed")
			time.Sleep(time.Second)
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				c.handleEntry(ctx, msg, 1)
			}
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.redis.XGroupCreateMkStream(ctx, c.opts.TaskStream, c.opts.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// claimStale re-claims pending entries whose consumer died or failed, so
// they get another delivery.
func (c *Consumer) claimStale(ctx context.Context) {
	msgs, _, err := c.redis.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.opts.TaskStream,
		Group:    c.opts.Group,
		Consumer: c.opts.Consumer,
		MinIdle:  c.opts.ClaimMinIdle,
		Start:    "0-0",
		Count:    10,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn().Err(err).Msg("pending claim failed")
		}
		return
	}
	for _, msg := range msgs {
		c.handleEntry(ctx, msg, c.deliveryCount(ctx, msg.ID))
	}
}

func (c *Consumer) deliveryCount(ctx context.Context, id string) int64 {
	pending, err := c.redis.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.opts.TaskStream,
		Group:  c.opts.Group,
		Start:  id,
		End:    id,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		return 1
	}
	return pending[0].RetryCount
}

func (c *Consumer) handleEntry(ctx context.Context, msg redis.XMessage, deliveries int64) {
	task, err := decodeTask(msg.Values)
	if err != nil {
		// Undecodable entries can never succeed; drop them.
		c.logger.Error().Err(err).Str("msg_id", msg.ID).Msg("dropping malformed task entry")
		c.ack(ctx, msg.ID)
		return
	}

	logger := c.logger.With().Str("task_id", task.TaskID).Str("msg_id", msg.ID).Logger()
	logger.Info().Str("file_url", task.FileURL).Int64("delivery", deliveries).Msg("processing conversion task")

	records, err := c.handler.Process(ctx, task)
	if err != nil {
		if deliveries >= c.opts.MaxDeliveries {
			logger.Error().Err(err).Msg("task failed permanently")
			c.publish(ctx, ConvertResult{
				TaskID:   task.TaskID,
				Status:   StatusFailed,
				ErrorMsg: err.Error(),
			})
			c.ack(ctx, msg.ID)
			return
		}
		// Leave unacked; the entry is redelivered after ClaimMinIdle.
		logger.Warn().Err(err).Msg("task failed, will retry")
		return
	}

	c.publish(ctx, ConvertResult{
		TaskID: task.TaskID,
		Status: StatusCompleted,
		Result: records,
	})
	c.ack(ctx, msg.ID)
	logger.Info().Int("questions", len(records)).Msg("task completed")
}

func (c *Consumer) publish(ctx context.Context, result ConvertResult) {
	tasksProcessed.WithLabelValues(result.Status).Inc()
	if err := c.publisher.PublishResult(ctx, result); err != nil {
		c.logger.Error().Err(err).Str("task_id", result.TaskID).Msg("result publish failed")
	}
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.redis.XAck(ctx, c.opts.TaskStream, c.opts.Group, id).Err(); err != nil {
		c.logger.Error().Err(err).Str("msg_id", id).Msg("ack failed")
	}
}
