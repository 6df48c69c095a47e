// internal/service/notification/interfaces/dlt_handler.go
package interfaces

import (
	"context"

	"github.com/segmentio/kafka-go"

	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/mq"
)

// DeadLetterHandler 记录死信消息，总是返回 nil 以便提交 offset
func DeadLetterHandler(ctx context.Context, msg kafka.Message) error {
	logger.Ctx(ctx).Error().
		Str("reason", "dead_letter_message_received").
		Str("original_topic", mq.Header(msg.Headers, mq.HeaderOriginalTopic)).
		Str("original_partition", mq.Header(msg.Headers, mq.HeaderOriginalPartition)).
		Str("original_offset", mq.Header(msg.Headers, mq.HeaderOriginalOffset)).
		Str("exception_fqcn", mq.Header(msg.Headers, mq.HeaderExceptionFqcn)).
		Str("exception_message", mq.Header(msg.Headers, mq.HeaderExceptionMessage)).
		Str("retry_count", mq.Header(msg.Headers, mq.HeaderRetryCount)).
		Str("key", string(msg.Key)).
		Str("value", string(msg.Value)).
		Msg("🚨 CRITICAL: Dead letter notification received")
	return nil
}
