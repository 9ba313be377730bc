package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed views/*.html
var viewFS embed.FS

var pages = []string{"home", "profile", "recommendations", "playlist_success"}

// parseViews builds one template set per page, each combined with the shared layout.
func parseViews() (map[string]*template.Template, error) {
	layout, err := template.ParseFS(viewFS, "views/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	views := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(viewFS, "views/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		views[name] = t
	}
	return views, nil
}

func (a *App) render(w http.ResponseWriter, name string, data any) {
	t, ok := a.views[name]
	if !ok {
		a.logger.Error("unknown view", "view", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		a.logger.Error("failed to render view", "view", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
