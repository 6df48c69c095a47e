// internal/service/notification/infrastructure/smtp_mailer.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"

	"zirako/internal/pkg/bootstrap"
	"zirako/internal/service/notification/application"
)

// SMTPMailer 通过 SMTP 投递邮件
type SMTPMailer struct {
	client   *mail.Client
	from     string
	fromName string
}

func NewSMTPMailer(cfg bootstrap.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}
	return &SMTPMailer{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, in *application.Mail) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return errors.Wrap(err, "set from")
	}
	if err := msg.To(in.To); err != nil {
		return errors.Wrapf(err, "set recipient %q", in.To)
	}
	if in.ReplyTo != "" {
		if err := msg.ReplyTo(in.ReplyTo); err != nil {
			return errors.Wrapf(err, "set reply-to %q", in.ReplyTo)
		}
	}
	msg.Subject(in.Subject)
	msg.SetBodyString(mail.TypeTextHTML, in.HTML)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrapf(err, "send mail to %s", in.To)
	}
	return nil
}
