// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/trailhead.js
var script []byte

// pages lists every page template; each is parsed together with the layout.
var pages = []string{"overview", "tour", "login", "signup", "account", "error"}

// funcs are available to every template.
var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"month": func(at time.Time) string {
		return at.Format("January 2006")
	},
	"first": func(name string) string {
		first, _, _ := strings.Cut(strings.TrimSpace(name), " ")
		return first
	},
	"stars": func(rating float64) []bool {
		stars := make([]bool, 5)
		for index := range stars {
			stars[index] = float64(index+1) <= rating
		}
		return stars
	},
}

// Renderer executes the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates once.
func NewRenderer() (*Renderer, error) {
	renderer := &Renderer{pages: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		parsed, err := template.New(page).Funcs(funcs).ParseFS(templateFiles, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", page, err)
		}
		renderer.pages[page] = parsed
	}

	return renderer, nil
}

// Script serves the page behaviour: JSON form submission, logout and checkout.
func Script(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = writer.Write(script)
}

// Render writes page with data. The page is rendered into a buffer first so
// a template failure never leaves a half-written response.
func (renderer *Renderer) Render(writer http.ResponseWriter, status int, page string, data Page) error {
	parsed, ok := renderer.pages[page]
	if !ok {
		return fmt.Errorf("view: unknown page %q", page)
	}

	var buffer bytes.Buffer
	if err := parsed.ExecuteTemplate(&buffer, "base", data); err != nil {
		return fmt.Errorf("view: render %s: %w", page, err)
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, err := buffer.WriteTo(writer)
	return err
}
