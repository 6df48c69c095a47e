// internal/service/notification/application/templates.go
package application

import (
	"bytes"
	"html/template"
	"strconv"
	texttemplate "text/template"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/notification/domain"
)

var printer = message.NewPrinter(language.Spanish)

// formatNumber 按西班牙语习惯输出千位分隔符，无法解析的输入原样返回
func formatNumber(s string) string {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return printer.Sprintf("%d", n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return printer.Sprintf("%.2f", f)
	}
	return s
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html lang="es"><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto;">
<div style="background: #1a5f3a; color: #fff; padding: 24px; text-align: center;"><h1 style="margin: 0;">{{template "title" .}}</h1></div>
<div style="padding: 24px;">{{template "body" .}}</div>
<div style="font-size: 12px; color: #888; text-align: center; padding: 16px;">ZIRAKO · Economía circular en el Valle del Cauca</div>
</div></body></html>{{end}}`

type mailTemplate struct {
	subject *texttemplate.Template
	body    *template.Template
}

var templateSources = map[domain.EventType][3]string{
	domain.EventWelcome: {
		`¡Bienvenido/a a ZIRAKO! 🌱`,
		`ZIRAKO`,
		`<h2>¡Bienvenido/a, {{.name}}!</h2>
<p>Gracias por unirte a <strong>ZIRAKO</strong>. Publica, dona e intercambia artículos y suma puntos por cada acción que ayuda al planeta.</p>
<p><a href="{{.base_url}}">Empieza ahora</a></p>`,
	},
	domain.EventVerifyEmail: {
		`Verifica tu correo - ZIRAKO`,
		`Verifica tu correo`,
		`<h2>Hola, {{.name}}</h2>
<p>Confirma tu dirección de correo para activar tu cuenta:</p>
<p><a href="{{.base_url}}/api/auth/verify?token={{.token}}">Verificar correo</a></p>`,
	},
	domain.EventPasswordReset: {
		`🔐 Tu nueva contraseña temporal - ZIRAKO`,
		`Recupera tu Cuenta`,
		`<h2>Hola, {{.name}}</h2>
<p>Recibimos una solicitud para restablecer tu contraseña. Tu nueva contraseña temporal es:</p>
<p style="font-size: 24px; letter-spacing: 4px;"><strong>{{.temp_password}}</strong></p>
<p>Te recomendamos cambiarla después de iniciar sesión.</p>`,
	},
	domain.EventExchangeProposed: {
		`🔄 Nueva solicitud de intercambio para "{{.requested_title}}"`,
		`🔄 Solicitud de Intercambio`,
		`<h2>Hola, {{.name}}</h2>
<p><strong>{{with .actor_name}}{{.}}{{else}}Un miembro de ZIRAKO{{end}}</strong> quiere intercambiar contigo:</p>
<p>Ofrece: <strong>{{.offered_title}}</strong><br>A cambio de: <strong>{{.requested_title}}</strong></p>
{{with .message}}<p><em>"{{.}}"</em></p>{{end}}
<p><a href="{{.base_url}}/perfil/intercambios">Responder la propuesta</a></p>`,
	},
	domain.EventExchangeDecided: {
		`{{if eq .decision "accepted"}}✅ Intercambio aceptado{{else}}Intercambio rechazado{{end}} - ZIRAKO`,
		`🔄 Intercambio #{{.proposal_id}}`,
		`<h2>Hola, {{.name}}</h2>
{{if eq .decision "accepted"}}<p>¡Tu propuesta de intercambio fue aceptada! Ganaste <strong>{{number .points}}</strong> puntos.</p>
{{else}}<p>Tu propuesta de intercambio fue rechazada. Sigue explorando otros artículos.</p>{{end}}`,
	},
	domain.EventPickupScheduled: {
		`✅ Recolección #REC-{{.pickup_id}} programada - ZIRAKO`,
		`🚚 Recolección Programada`,
		`<h2>¡Hola, {{.name}}!</h2>
<p>Tu recolección ha sido programada exitosamente:</p>
<p>📍 {{.address}}, {{.city}}<br>📅 {{.date}}<br>🕐 {{.slot}}</p>
<p>Sumaste <strong>{{number .points}}</strong> puntos.</p>`,
	},
	domain.EventPickupReminder: {
		`⏰ Mañana es tu recolección #REC-{{.pickup_id}} - ZIRAKO`,
		`⏰ Recordatorio de Recolección`,
		`<h2>Hola, {{.name}}</h2>
<p>Te recordamos que mañana pasaremos por tus artículos:</p>
<p>📍 {{.address}}, {{.city}}<br>📅 {{.date}}<br>🕐 {{.slot}}</p>`,
	},
	domain.EventTicketCreated: {
		`🎫 Ticket #{{.ticket_id}}: {{.subject}}`,
		`🎫 Nuevo Ticket de Soporte`,
		`<p><strong>👤 De:</strong> {{.name}}</p>
<p><strong>📧 Email:</strong> {{.email}}</p>
<p><strong>📋 Asunto:</strong> {{.subject}}</p>
<p><strong>Prioridad:</strong> {{.priority}} · <strong>Categoría:</strong> {{.category}}</p>
<p>{{.message}}</p>`,
	},
	domain.EventTicketReceived: {
		`✅ Ticket #{{.ticket_id}} recibido - ZIRAKO`,
		`Ticket Recibido`,
		`<h2>Hola, {{.name}}</h2>
<p>Hemos recibido tu solicitud de soporte. Nuestro equipo la revisará y te responderemos lo antes posible.</p>
<p><strong>Asunto:</strong> {{.subject}}</p>`,
	},
	domain.EventSupportChat: {
		`💬 Chat de soporte: {{.name}}`,
		`💬 Nuevo Mensaje de Chat`,
		`<p><strong>De:</strong> {{.name}}</p>
<p><strong>Email:</strong> {{.email}}</p>
<p><strong>Mensaje:</strong></p><p>{{.message}}</p>`,
	},
	domain.EventContactOwner: {
		`📩 {{.sender_name}} está interesado en "{{.listing_title}}"`,
		`📩 Nuevo Mensaje`,
		`<h2>Hola, {{.name}}</h2>
<p><strong>{{.sender_name}}</strong> ({{.sender_email}}) te escribió sobre <strong>{{.listing_title}}</strong>{{with .price}} (${{number .}}){{end}}:</p>
<p>{{.message}}</p>
<p>Responde directamente a este correo para contactarle.</p>`,
	},
}

var templates = mustParseTemplates()

func mustParseTemplates() map[domain.EventType]mailTemplate {
	funcs := template.FuncMap{"number": formatNumber}
	subjectFuncs := texttemplate.FuncMap{"number": formatNumber}
	out := make(map[domain.EventType]mailTemplate, len(templateSources))
	for t, src := range templateSources {
		subject := texttemplate.Must(texttemplate.New("subject").Funcs(subjectFuncs).Parse(src[0]))
		body := template.Must(template.New("mail").Funcs(funcs).Parse(layout))
		template.Must(body.New("title").Parse(src[1]))
		template.Must(body.New("body").Parse(src[2]))
		out[t] = mailTemplate{subject: subject, body: body}
	}
	return out
}

// ErrUnknownEventType 表示没有对应的邮件模板
var ErrUnknownEventType = apperr.New(apperr.ErrValidation, "unknown notification type")

// Render 渲染事件的邮件主题与 HTML 正文
func Render(t domain.EventType, data map[string]string) (subject, body string, err error) {
	tpl, ok := templates[t]
	if !ok {
		return "", "", ErrUnknownEventType
	}
	var sb, bb bytes.Buffer
	if err := tpl.subject.Execute(&sb, data); err != nil {
		return "", "", errors.Wrapf(err, "render %s subject", t)
	}
	if err := tpl.body.ExecuteTemplate(&bb, "layout", data); err != nil {
		return "", "", errors.Wrapf(err, "render %s body", t)
	}
	return sb.String(), bb.String(), nil
}
