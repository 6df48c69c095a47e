// internal/pkg/mq/kafka.go
package mq

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// 写入死信队列时附带的消息头
const (
	HeaderOriginalTopic     = "x-original-topic"
	HeaderOriginalPartition = "x-original-partition"
	HeaderOriginalOffset    = "x-original-offset"
	HeaderExceptionFqcn     = "x-exception-fqcn"
	HeaderExceptionMessage  = "x-exception-message"
	HeaderRetryCount        = "x-retry-count"
)

// NewKafkaWriter 创建按 key 哈希分区的 writer
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaReader 创建消费组 reader，offset 由调用方手动提交
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
}

// MessageWriter 是 kafka.Writer 的最小抽象，便于测试替换
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ProduceMessage 写入一条消息，并把当前追踪上下文注入消息头
func ProduceMessage(ctx context.Context, writer MessageWriter, key, value []byte) error {
	msg := kafka.Message{Key: key, Value: value}
	InjectTraceContext(ctx, &msg.Headers)
	if err := writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, "write kafka message")
	}
	return nil
}

// ForwardToDLT 把处理失败的消息连同失败原因写入死信主题
func ForwardToDLT(ctx context.Context, writer MessageWriter, msg kafka.Message, cause error, retries int) error {
	headers := append([]kafka.Header{}, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: HeaderExceptionFqcn, Value: []byte(errorType(cause))},
		kafka.Header{Key: HeaderExceptionMessage, Value: []byte(cause.Error())},
		kafka.Header{Key: HeaderRetryCount, Value: []byte(strconv.Itoa(retries))},
	)
	dead := kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
	if err := writer.WriteMessages(ctx, dead); err != nil {
		return errors.Wrap(err, "write dead letter")
	}
	return nil
}

// InjectTraceContext 把 ctx 中的追踪信息写入 Kafka 消息头
func InjectTraceContext(ctx context.Context, headers *[]kafka.Header) {
	carrier := KafkaHeaderCarrier(*headers)
	otel.GetTextMapPropagator().Inject(ctx, &carrier)
	*headers = carrier
}

// ExtractTraceContext 从 Kafka 消息头恢复追踪上下文
func ExtractTraceContext(ctx context.Context, headers []kafka.Header) context.Context {
	carrier := KafkaHeaderCarrier(headers)
	return otel.GetTextMapPropagator().Extract(ctx, &carrier)
}

// Header 返回指定消息头的值
func Header(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func errorType(err error) string {
	return fmt.Sprintf("%T", errors.Cause(err))
}
