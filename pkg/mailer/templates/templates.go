package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const (
	Welcome             = "welcome"
	SubscriptionChanged = "subscription_changed"
	PasswordChanged     = "password_changed"
)

var names = []string{Welcome, SubscriptionChanged, PasswordChanged}

// set is the parsed subject/text/html triple of one email.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	loadOnce sync.Once
	sets     map[string]set
	loadErr  error
)

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

// load parses every embedded set once.
func load() (map[string]set, error) {
	loadOnce.Do(func() {
		out := make(map[string]set, len(names))
		for _, name := range names {
			s, err := parseSet(name)
			if err != nil {
				loadErr = err
				return
			}
			out[name] = s
		}
		sets = out
	})
	return sets, loadErr
}

func parseSet(name string) (set, error) {
	var s set
	var err error
	if s.subject, err = texttpl.New(name + ".subject.tmpl").Funcs(funcs()).ParseFS(FS, name+".subject.tmpl"); err != nil {
		return s, fmt.Errorf("parse %s subject: %w", name, err)
	}
	if s.text, err = texttpl.New(name + ".text.tmpl").Funcs(funcs()).ParseFS(FS, name+".text.tmpl"); err != nil {
		return s, fmt.Errorf("parse %s text: %w", name, err)
	}
	if s.html, err = htmpl.New(name + ".html.tmpl").Funcs(funcs()).ParseFS(FS, name+".html.tmpl"); err != nil {
		return s, fmt.Errorf("parse %s html: %w", name, err)
	}
	return s, nil
}

// Known reports whether name has an embedded template set.
func Known(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Render renders the subject, text and html bodies of the named email.
func Render(name string, data any) (subject string, text string, html string, err error) {
	if !Known(name) {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	all, err := load()
	if err != nil {
		return "", "", "", err
	}
	s := all[name]

	var buf bytes.Buffer
	if err := s.subject.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := s.text.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	text = buf.String()

	buf.Reset()
	if err := s.html.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return subject, text, buf.String(), nil
}
