package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

const ReminderSubject = "🎯 Suas Metas de Um Ano Atrás"

//go:embed templates/reminder.html
var templateFS embed.FS

var reminderTmpl = template.Must(template.ParseFS(templateFS, "templates/reminder.html"))

type ReminderData struct {
	Name     string
	ImageURL string
	Year     int
}

// Reminder builds the one-year reminder email carrying the board image.
func Reminder(to string, data ReminderData) (Message, error) {
	var buf bytes.Buffer
	if err := reminderTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render reminder email: %w", err)
	}
	return Message{To: to, Subject: ReminderSubject, HTML: buf.String()}, nil
}
