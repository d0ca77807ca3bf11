package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/budgetgate/budgetgate/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = map[string]*template.Template{
	"index":   parsePage("index"),
	"private": parsePage("private"),
	"error":   parsePage("error"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
}

type pageData struct {
	Title   string
	Email   string
	Name    string
	Code    auth.ErrorCode
	Message string
}

// PageHandler renders the server-side pages.
type PageHandler struct {
	sessions auth.IdentitySource
	gate     *auth.Gate
	logger   *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(sessions auth.IdentitySource, gate *auth.Gate, logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{sessions: sessions, gate: gate, logger: logger}
}

// Index handles GET /. A visitor with an admitted session sees their email.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Home"}
	if h.sessions != nil {
		if identity, ok := h.sessions.CurrentIdentity(r); ok && h.gate.Admit(identity) {
			data.Email = identity.Email
		}
	}
	h.render(w, http.StatusOK, "index", data)
}

// Private handles GET /private. It must sit behind RequireSession.
func (h *PageHandler) Private(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		http.Redirect(w, r, "/auth/signin", http.StatusFound)
		return
	}
	h.render(w, http.StatusOK, "private", pageData{
		Title: "Budgets",
		Email: identity.Email,
		Name:  identity.Name,
	})
}

// Error handles GET /auth/error?error=<code>.
func (h *PageHandler) Error(w http.ResponseWriter, r *http.Request) {
	code := auth.ParseErrorCode(r.URL.Query().Get("error"))
	h.render(w, http.StatusOK, "error", pageData{
		Title:   "Sign-in error",
		Code:    code,
		Message: code.Message(),
	})
}

func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render_page_failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
