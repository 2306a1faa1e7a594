package handlers

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"social/internal/config"
	"social/internal/db"
	"social/internal/flash"
	"social/internal/forms"
	"social/internal/models"
	"social/internal/upload"
	"time"
)

// App is built once at startup and shared by every handler.
type App struct {
	Repo    *db.Repository
	Log     *log.Logger
	Views   *Renderer
	Uploads *upload.Store
	Flash   *flash.Store
	Config  *config.Config
}

// Renderer executes templates/<name>.html inside templates/layout.html.
type Renderer struct {
	dir string
}

func NewRenderer(projectRoot string) *Renderer {
	return &Renderer{dir: filepath.Join(projectRoot, "templates")}
}

var templateFuncs = template.FuncMap{
	// stored text is escaped once; unescape it so the template escapes it exactly once on output
	"unescape": html.UnescapeString,
	"timefmt": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"fieldError": func(errs forms.Errors, field string) string {
		return errs[field]
	},
}

// Render writes the page with the given status. Nothing is written if the
// template fails, so the caller can still send an error page.
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFiles(
		filepath.Join(v.dir, "layout.html"),
		filepath.Join(v.dir, name+".html"),
	)
	if err != nil {
		return fmt.Errorf("loading template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// pageData returns the values every page needs, consuming pending flash messages.
func (a *App) pageData(w http.ResponseWriter, r *http.Request, title string, user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"Title":       title,
		"CurrentUser": user,
		"Flashes":     a.Flash.Pop(w, r),
		"Errors":      forms.Errors{},
	}
}

// flashNow shows a message on the page being rendered instead of the next one.
func flashNow(data map[string]interface{}, category, text string) {
	msgs, _ := data["Flashes"].([]flash.Message)
	data["Flashes"] = append(msgs, flash.Message{Category: category, Text: text})
}

func (a *App) render(w http.ResponseWriter, status int, name string, data map[string]interface{}) {
	if err := a.Views.Render(w, status, name, data); err != nil {
		a.serverError(w, err)
	}
}

// redirect queues a flash message and sends the client to url.
func (a *App) redirect(w http.ResponseWriter, r *http.Request, url, category, text string) {
	if text != "" {
		if err := a.Flash.Add(w, r, category, text); err != nil {
			a.Log.Printf("Flash error: %v", err)
		}
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (a *App) serverError(w http.ResponseWriter, err error) {
	a.Log.Printf("Internal error: %v", err)
	a.renderError(w, http.StatusInternalServerError, "500 Internal Server Error", "Something went wrong. Please try again later.")
}

func (a *App) renderError(w http.ResponseWriter, code int, title, message string) {
	data := map[string]interface{}{
		"Title":       title,
		"CurrentUser": nil,
		"Flashes":     nil,
		"Code":        code,
		"Message":     message,
	}
	if err := a.Views.Render(w, code, "error", data); err != nil {
		a.Log.Printf("Error page failed: %v", err)
		http.Error(w, message, code)
	}
}

// NotFound renders the 404 page.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.renderError(w, http.StatusNotFound, "404 Not Found", "The page you are looking for does not exist.")
}

func (a *App) methodNotAllowed(w http.ResponseWriter) {
	a.renderError(w, http.StatusMethodNotAllowed, "405 Method Not Allowed", "Method not supported")
}
