package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var reminderTmpl = template.Must(template.New("reminder").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #4CAF50;">Upcoming Task Reminder!</h2>
  <p>Hey there,</p>
  <p>Your task <strong style="color: #2196F3;">"{{.Heading}}"</strong> is scheduled soon!</p>
  <p><strong>Task Time:</strong> {{.When}}</p>
  <p><strong>Remaining Time:</strong> 10 minutes</p>
  <p><strong>Task Details:</strong><br>{{.Content}}</p>
  <p style="font-size: 14px; color: #777;">This is an automatic reminder from your Task Scheduler</p>
</div>`))

var startTmpl = template.Must(template.New("start").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #F44336;">Your Task Has Started!</h2>
  <p>Hey there,</p>
  <p>Your task <strong style="color: #2196F3;">"{{.Heading}}"</strong> is starting <strong>NOW</strong>!</p>
  <p><strong>Task Time:</strong> {{.When}}</p>
  <p><strong>Task Details:</strong><br>{{.Content}}</p>
  <p style="font-size: 14px; color: #777;">Best of luck!<br> - Task Scheduler System</p>
</div>`))

type taskView struct {
	Heading string
	Content string
	When    string
}

// ReminderMessage is the "coming up" mail sent ten minutes before a task.
func ReminderMessage(to, heading, content string, at time.Time) (Message, error) {
	view := taskView{Heading: heading, Content: content, When: at.UTC().Format(time.RFC1123)}
	html, err := render(reminderTmpl, view)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Reminder: Your Task %q is Coming Up!", heading),
		Text:    fmt.Sprintf("Your task %q is scheduled at %s (in 10 minutes).\n\n%s", heading, view.When, content),
		HTML:    html,
	}, nil
}

// StartMessage is the "starting now" mail sent when a task is due.
func StartMessage(to, heading, content string, at time.Time) (Message, error) {
	view := taskView{Heading: heading, Content: content, When: at.UTC().Format(time.RFC1123)}
	html, err := render(startTmpl, view)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Now: Your Task %q Has Started!", heading),
		Text:    fmt.Sprintf("Your task %q is starting now (%s).\n\n%s", heading, view.When, content),
		HTML:    html,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
