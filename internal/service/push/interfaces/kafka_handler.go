// internal/service/push/interfaces/kafka_handler.go
package interfaces

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/mq"
	messaging "zirako/internal/service/messaging/domain"
	"zirako/internal/service/push/application"
)

func decodeChatEvent(msg kafka.Message) (*messaging.ChatEvent, error) {
	var e messaging.ChatEvent
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return nil, mq.Permanent(errors.Wrap(err, "decode chat event"))
	}
	if e.RecipientID <= 0 {
		return nil, mq.Permanent(errors.New("chat event without recipient"))
	}
	return &e, nil
}

// NewRouteHandler 返回 chat-messages 主题的处理函数
func NewRouteHandler(router *application.Router) mq.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		e, err := decodeChatEvent(msg)
		if err != nil {
			return err
		}
		_, err = router.Route(ctx, e, msg.Value)
		return err
	}
}

// NewDeliveryHandler 返回网关节点主题的处理函数，把消息写给本节点上的连接。
// 连接在路由之后断开时消息被丢弃，客户端重连后通过会话接口补齐。
func NewDeliveryHandler(hub *application.Hub) mq.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		e, err := decodeChatEvent(msg)
		if err != nil {
			return err
		}
		if !hub.Deliver(e.RecipientID, msg.Value) {
			logger.Ctx(ctx).Info().
				Int64("message_id", e.MessageID).
				Int64("recipient_id", e.RecipientID).
				Msg("recipient not connected to this node, message dropped")
		}
		return nil
	}
}
