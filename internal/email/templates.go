package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"sort"
	texttemplate "text/template"
)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
	Tag     string
}

type template struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func newTemplate(name, subject, text, html string) template {
	return template{
		subject: texttemplate.Must(texttemplate.New(name + "_subject").Option("missingkey=zero").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New(name + "_text").Option("missingkey=zero").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name + "_html").Option("missingkey=zero").Parse(html)),
	}
}

const footerText = "\n\nThe HomeClean team"
const footerHTML = `<p style="color:#6b7280">The HomeClean team</p>`

var templates = map[string]template{
	"welcome": newTemplate("welcome",
		"Welcome to HomeClean{{if .name}}, {{.name}}{{end}}",
		"Hi {{or .name \"there\"}},\n\nYour account is ready. Post a clean or browse available jobs from the app."+footerText,
		`<p>Hi {{or .name "there"}},</p><p>Your account is ready. Post a clean or browse available jobs from the app.</p>`+footerHTML,
	),
	"task_created": newTemplate("task_created",
		"Your cleaning task for {{.scheduled_date}} is posted",
		"Your {{.task_type}} clean at {{.address}} on {{.scheduled_date}} is now visible to cleaners."+footerText,
		`<p>Your {{.task_type}} clean at <strong>{{.address}}</strong> on {{.scheduled_date}} is now visible to cleaners.</p>`+footerHTML,
	),
	"task_accepted": newTemplate("task_accepted",
		"{{or .cleaner_name \"A cleaner\"}} accepted your task",
		"{{or .cleaner_name \"A cleaner\"}} accepted your clean at {{.address}} on {{.scheduled_date}}. Confirm the booking in the app."+footerText,
		`<p>{{or .cleaner_name "A cleaner"}} accepted your clean at <strong>{{.address}}</strong> on {{.scheduled_date}}.</p><p>Confirm the booking in the app.</p>`+footerHTML,
	),
	"task_confirmed": newTemplate("task_confirmed",
		"Booking confirmed for {{.scheduled_date}}",
		"The owner confirmed your booking at {{.address}} on {{.scheduled_date}} ({{.time_slot}})."+footerText,
		`<p>The owner confirmed your booking at <strong>{{.address}}</strong> on {{.scheduled_date}} ({{.time_slot}}).</p>`+footerHTML,
	),
	"task_checked_in": newTemplate("task_checked_in",
		"Your cleaner has arrived",
		"Your cleaner checked in at {{.address}} at {{.check_in_time}}."+footerText,
		`<p>Your cleaner checked in at <strong>{{.address}}</strong> at {{.check_in_time}}.</p>`+footerHTML,
	),
	"task_completed": newTemplate("task_completed",
		"Your clean is complete",
		"The clean at {{.address}} is complete. Before and after photos are in the app."+footerText,
		`<p>The clean at <strong>{{.address}}</strong> is complete. Before and after photos are in the app.</p>`+footerHTML,
	),
	"task_cancelled": newTemplate("task_cancelled",
		"Cleaning task cancelled",
		"The clean at {{.address}} on {{.scheduled_date}} was cancelled.{{if .reason}} Reason: {{.reason}}{{end}}"+footerText,
		`<p>The clean at <strong>{{.address}}</strong> on {{.scheduled_date}} was cancelled.</p>{{if .reason}}<p>Reason: {{.reason}}</p>{{end}}`+footerHTML,
	),
	"payment_received": newTemplate("payment_received",
		"Payment received",
		"We received your payment of {{.amount}} {{.currency}} for the clean at {{.address}}."+footerText,
		`<p>We received your payment of <strong>{{.amount}} {{.currency}}</strong> for the clean at {{.address}}.</p>`+footerHTML,
	),
}

// Types lists the known notification types in sorted order.
func Types() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func KnownType(notificationType string) bool {
	_, ok := templates[notificationType]
	return ok
}

// Render fills the template for notificationType with payload.
func Render(notificationType string, payload map[string]interface{}) (*Message, error) {
	tmpl, ok := templates[notificationType]
	if !ok {
		return nil, fmt.Errorf("unknown notification type %q", notificationType)
	}
	data := make(map[string]string, len(payload))
	for k, v := range payload {
		if v != nil {
			data[k] = fmt.Sprint(v)
		}
	}

	var subject, text, html bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := tmpl.html.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	return &Message{
		Subject: subject.String(),
		Text:    text.String(),
		HTML:    html.String(),
		Tag:     notificationType,
	}, nil
}
