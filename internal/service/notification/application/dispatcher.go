// internal/service/notification/application/dispatcher.go
package application

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/metrics"
	"zirako/internal/service/notification/domain"
)

// ErrRecipientNotFound 表示事件的收件账户不存在
var ErrRecipientNotFound = apperr.New(apperr.ErrNotFound, "notification recipient not found")

// Recipient 是收件人的邮箱与称呼
type Recipient struct {
	Email string
	Name  string
}

// Directory 根据账户 ID 查询收件人
type Directory interface {
	Lookup(ctx context.Context, accountID int64) (*Recipient, error)
}

// Mail 是一封待发送的 HTML 邮件
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer 负责投递邮件
type Mailer interface {
	Send(ctx context.Context, m *Mail) error
}

// Dispatcher 把通知事件渲染成邮件并投递
type Dispatcher struct {
	directory Directory
	mailer    Mailer
	baseURL   string
	tracer    trace.Tracer
}

func NewDispatcher(directory Directory, mailer Mailer, baseURL string, tracer trace.Tracer) *Dispatcher {
	return &Dispatcher{directory: directory, mailer: mailer, baseURL: baseURL, tracer: tracer}
}

// Dispatch 解析收件人、渲染模板并发送邮件
func (d *Dispatcher) Dispatch(ctx context.Context, e *domain.Event) error {
	ctx, span := d.tracer.Start(ctx, "app.DispatchNotification", trace.WithAttributes(
		attribute.String("notification.id", e.ID),
		attribute.String("notification.type", string(e.Type)),
		attribute.Int64("notification.recipient_id", e.RecipientID),
	))
	defer span.End()

	data := make(map[string]string, len(e.Data)+2)
	for k, v := range e.Data {
		data[k] = v
	}
	data["base_url"] = d.baseURL

	to := e.RecipientEmail
	if to == "" {
		r, err := d.directory.Lookup(ctx, e.RecipientID)
		if err != nil {
			return d.fail(span, e, err, "recipient lookup failed")
		}
		to = r.Email
		if data["name"] == "" {
			data["name"] = r.Name
		}
	}

	// actor 是触发通知的账户，模板里显示其名称
	if id, err := strconv.ParseInt(data["actor_id"], 10, 64); err == nil && data["actor_name"] == "" {
		if r, err := d.directory.Lookup(ctx, id); err == nil {
			data["actor_name"] = r.Name
		}
	}

	subject, body, err := Render(e.Type, data)
	if err != nil {
		return d.fail(span, e, err, "render failed")
	}
	if err := d.mailer.Send(ctx, &Mail{To: to, ReplyTo: e.ReplyTo, Subject: subject, HTML: body}); err != nil {
		return d.fail(span, e, err, "send failed")
	}

	metrics.EmailsSent.WithLabelValues(string(e.Type), "sent").Inc()
	logger.Ctx(ctx).Info().Str("notification_id", e.ID).Str("type", string(e.Type)).Str("to", to).Msg("📧 email sent")
	return nil
}

func (d *Dispatcher) fail(span trace.Span, e *domain.Event, err error, msg string) error {
	metrics.EmailsSent.WithLabelValues(string(e.Type), "failed").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
