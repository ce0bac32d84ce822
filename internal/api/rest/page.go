package rest

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/fortuna/pivotboard/internal/service"
	"go.uber.org/zap"
)

const siteURL = "https://www.pivotbets.com"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").ParseFS(templateFS, "templates/*.html"))

// pageView is the template input: the page model plus static chrome
type pageView struct {
	*service.Page
	SiteURL string
}

// Dashboard renders the HTML dashboard for the league and matchup in the query string
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	league, matchup := selection(r)
	page := h.dashboard.Build(r.Context(), league, matchup)

	// Render to a buffer first so a template failure still yields a clean 500
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageView{Page: page, SiteURL: siteURL}); err != nil {
		h.logger.Error("rendering dashboard", zap.String("league", league), zap.Error(err))
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
