// internal/pkg/mq/consumer.go
package mq

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/logger"
)

// MessageReader 是 kafka.Reader 的最小抽象，便于测试替换
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler 处理一条消息；返回 Permanent 包装的错误时不再重试
type Handler func(ctx context.Context, msg kafka.Message) error

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 标记重试也无法成功的错误，例如消息体无法解析
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Consumer 从一个主题拉取消息，交给 Handler 处理后手动提交 offset。
// 处理失败时按固定间隔重试，超过次数后写入死信主题。
type Consumer struct {
	name        string
	topic       string
	reader      MessageReader
	handler     Handler
	dlt         MessageWriter
	maxAttempts int
	backoff     time.Duration
	tracer      trace.Tracer

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

type ConsumerOption func(*Consumer)

const dltRetryInterval = 100 * time.Millisecond

// WithDeadLetter 设置死信主题 writer 与最大尝试次数
func WithDeadLetter(writer MessageWriter, maxAttempts int) ConsumerOption {
	return func(c *Consumer) {
		c.dlt = writer
		c.maxAttempts = maxAttempts
	}
}

// WithRetries 只设置最大尝试次数；没有死信主题时最后一次失败的消息被丢弃
func WithRetries(maxAttempts int) ConsumerOption {
	return func(c *Consumer) { c.maxAttempts = maxAttempts }
}

func WithBackoff(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.backoff = d }
}

func NewConsumer(name, topic string, reader MessageReader, handler Handler, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		name:        name,
		topic:       topic,
		reader:      reader,
		handler:     handler,
		maxAttempts: 1,
		backoff:     time.Second,
		tracer:      otel.Tracer(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

// Start 在后台开始消费，直到 ctx 取消或调用 Stop
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		logger.Ctx(ctx).Info().Str("consumer", c.name).Str("topic", c.topic).Msg("✅ Kafka consumer started")
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Ctx(ctx).Info().Str("consumer", c.name).Msg("🛑 Kafka consumer shutting down")
					return
				}
				logger.Ctx(ctx).Error().Err(err).Str("consumer", c.name).Msg("could not fetch message, retrying")
				sleep(ctx, time.Second)
				continue
			}

			// 消息既未处理成功也未写入死信主题时不提交 offset，重启后重新消费
			if _, settled := c.process(ctx, msg); !settled {
				logger.Ctx(ctx).Warn().Str("consumer", c.name).Int64("offset", msg.Offset).Msg("🛑 message left uncommitted, consumer shutting down")
				return
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Error().Err(err).Str("consumer", c.name).Int64("offset", msg.Offset).Msg("failed to commit message")
			}
		}
	}()
}

// Stop 停止拉取并等待正在处理的消息完成
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.reader.Close(); err != nil {
		logger.Ctx(context.Background()).Warn().Err(err).Str("consumer", c.name).Msg("close reader")
	}
	logger.Ctx(context.Background()).Info().Str("consumer", c.name).Msg("✅ Kafka consumer stopped")
}

// process 处理单条消息，返回处理尝试的次数，以及消息是否已经处理完毕
// （成功、丢弃或写入死信主题）。死信写入失败时按 backoff 重试，直到 ctx 取消。
func (c *Consumer) process(parent context.Context, msg kafka.Message) (int, bool) {
	ctx := ExtractTraceContext(parent, msg.Headers)
	ctx, span := c.tracer.Start(ctx, c.name+".Process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
			attribute.String("messaging.kafka.message.key", string(msg.Key)),
		))
	defer span.End()
	ctx = logger.WithContext(ctx)

	var err error
	attempt := 0
	for attempt < c.maxAttempts {
		attempt++
		if err = c.handler(ctx, msg); err == nil {
			return attempt, true
		}
		if IsPermanent(err) {
			break
		}
		logger.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Int64("offset", msg.Offset).Msg("message handling failed")
		if attempt < c.maxAttempts {
			sleep(ctx, c.backoff)
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "message handling failed")
	if c.dlt == nil {
		logger.Ctx(ctx).Error().Err(err).Int64("offset", msg.Offset).Msg("message dropped")
		return attempt, true
	}
	wait := c.backoff
	if wait <= 0 {
		wait = dltRetryInterval
	}
	for {
		dltErr := ForwardToDLT(ctx, c.dlt, msg, err, attempt)
		if dltErr == nil {
			break
		}
		logger.Ctx(ctx).Error().Err(dltErr).Int64("offset", msg.Offset).Msg("failed to forward message to DLT")
		if ctx.Err() != nil {
			return attempt, false
		}
		sleep(ctx, wait)
		if ctx.Err() != nil {
			return attempt, false
		}
	}
	logger.Ctx(ctx).Warn().Err(err).Int("attempts", attempt).Int64("offset", msg.Offset).Msg("message forwarded to DLT")
	return attempt, true
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
