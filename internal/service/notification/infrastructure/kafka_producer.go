// internal/service/notification/infrastructure/kafka_producer.go
package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"zirako/internal/pkg/metrics"
	"zirako/internal/pkg/mq"
	"zirako/internal/service/notification/domain"
)

// KafkaPublisher 把通知事件写入 notifications 主题，按收件人分区
type KafkaPublisher struct {
	writer mq.MessageWriter
}

func NewKafkaPublisher(writer mq.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e *domain.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrapf(err, "marshal %s notification", e.Type)
	}
	if err := mq.ProduceMessage(ctx, p.writer, []byte(e.PartitionKey()), body); err != nil {
		metrics.NotificationPublishFailures.WithLabelValues(string(e.Type)).Inc()
		return errors.Wrapf(err, "publish %s notification", e.Type)
	}
	return nil
}
