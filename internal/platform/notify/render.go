// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// subjects holds the subject line of each kind.
var subjects = map[Kind]string{
	KindWelcome:       "Welcome to the Trailhead family!",
	KindPasswordReset: "Your password reset token (valid for only 10 minutes)",
}

// Rendered is a message ready for delivery.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// view is the data passed to every template.
type view struct {
	FirstName string
	URL       string
	Subject   string
}

// Render produces the subject and both bodies of message.
func Render(message Message) (Rendered, error) {
	subject, ok := subjects[message.Kind]
	if !ok {
		return Rendered{}, fmt.Errorf("notify: unknown mail kind %q", message.Kind)
	}

	data := view{FirstName: message.To.FirstName(), URL: message.URL, Subject: subject}

	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, string(message.Kind)+".html", data); err != nil {
		return Rendered{}, fmt.Errorf("render_html_failed: %w", err)
	}
	if err := textTemplates.ExecuteTemplate(&text, string(message.Kind)+".txt", data); err != nil {
		return Rendered{}, fmt.Errorf("render_text_failed: %w", err)
	}

	return Rendered{Subject: subject, Text: text.String(), HTML: html.String()}, nil
}
