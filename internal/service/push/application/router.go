// internal/service/push/application/router.go
package application

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/metrics"
	messaging "zirako/internal/service/messaging/domain"
)

// SessionLookup 查询账户当前连接的推送网关节点，离线时返回空串
type SessionLookup interface {
	GetUserGateway(ctx context.Context, accountID int64) (string, error)
}

// Forwarder 把消息写入指定主题
type Forwarder interface {
	Forward(ctx context.Context, topic string, key, value []byte) error
}

// Router 把私信事件转发到收件人所在网关节点的专属主题
type Router struct {
	sessions  SessionLookup
	forwarder Forwarder
	prefix    string
	tracer    trace.Tracer
}

func NewRouter(sessions SessionLookup, forwarder Forwarder, topicPrefix string, tracer trace.Tracer) *Router {
	return &Router{sessions: sessions, forwarder: forwarder, prefix: topicPrefix, tracer: tracer}
}

// NodeTopic 返回网关节点订阅的主题
func NodeTopic(prefix, nodeID string) string {
	return prefix + nodeID
}

// Route 转发一条私信事件；收件人离线时丢弃并返回 false
func (r *Router) Route(ctx context.Context, e *messaging.ChatEvent, payload []byte) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "app.RouteChatMessage", trace.WithAttributes(
		attribute.Int64("message.id", e.MessageID),
		attribute.Int64("recipient.id", e.RecipientID),
	))
	defer span.End()

	node, err := r.sessions.GetUserGateway(ctx, e.RecipientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session lookup failed")
		return false, err
	}
	if node == "" {
		metrics.PushDeliveries.WithLabelValues("route", "offline").Inc()
		logger.Ctx(ctx).Debug().Int64("recipient_id", e.RecipientID).Msg("recipient offline, message dropped")
		return false, nil
	}

	topic := NodeTopic(r.prefix, node)
	span.SetAttributes(attribute.String("push.topic", topic))
	if err := r.forwarder.Forward(ctx, topic, []byte(strconv.FormatInt(e.RecipientID, 10)), payload); err != nil {
		metrics.PushDeliveries.WithLabelValues("route", "failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "forward failed")
		return false, err
	}
	metrics.PushDeliveries.WithLabelValues("route", "ok").Inc()
	logger.Ctx(ctx).Debug().
		Int64("message_id", e.MessageID).
		Int64("recipient_id", e.RecipientID).
		Str("node", node).
		Msg("chat message routed")
	return true, nil
}
