package ui

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/Bernardstanislas/secretariat/internal/auth"
	"github.com/Bernardstanislas/secretariat/internal/logging"
)

//go:embed templates
var templatesFS embed.FS

var pages = parsePages(
	"onboarding.html",
	"onboarding_success.html",
	"login.html",
	"account.html",
)

func parsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(
			template.New("base.html").ParseFS(templatesFS,
				"templates/layouts/base.html",
				"templates/"+name,
			),
		)
	}
	return parsed
}

// pageData starts the data of a page with the fields the layout reads.
func pageData(r *http.Request, title string) map[string]interface{} {
	return map[string]interface{}{
		"Title":    title,
		"Username": auth.GetUsername(r.Context()),
		"Errors":   []string(nil),
		"Messages": []string(nil),
	}
}

// RenderTemplate renders a page inside the base layout with the given status.
func RenderTemplate(w http.ResponseWriter, status int, templateName string, data map[string]interface{}) error {
	t, ok := pages[templateName]
	if !ok {
		logging.Error("Unknown template", "template", templateName)
		http.Error(w, "Unknown template", http.StatusInternalServerError)
		return nil
	}

	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		logging.Error("Error rendering template", "template", templateName, "error", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(buf.String()))
	return err
}
