// internal/service/notification/interfaces/event_handler.go
package interfaces

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/mq"
	"zirako/internal/service/notification/domain"
)

// EventDispatcher 是通知事件的处理者
type EventDispatcher interface {
	Dispatch(ctx context.Context, e *domain.Event) error
}

// NewEventHandler 返回 notifications 主题的消息处理函数。
// 无法解析的消息、未知模板与不存在的收件人不会通过重试恢复，直接进入死信主题。
func NewEventHandler(dispatcher EventDispatcher) mq.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var e domain.Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return mq.Permanent(errors.Wrap(err, "decode notification event"))
		}
		err := dispatcher.Dispatch(ctx, &e)
		switch apperr.KindOf(err) {
		case apperr.ErrValidation, apperr.ErrNotFound:
			return mq.Permanent(err)
		}
		return err
	}
}
