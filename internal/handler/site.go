package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/spotlesscleaning/site-server-go/internal/content"
	"github.com/spotlesscleaning/site-server-go/internal/service"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// SiteHandler renders the public marketing page from the current content
// snapshot. Every value falls back to its built-in default when no
// override has been saved.
type SiteHandler struct {
	contentService *service.ContentService
}

func NewSiteHandler(contentService *service.ContentService) *SiteHandler {
	return &SiteHandler{contentService: contentService}
}

type sitePage struct {
	HeroTitle     string
	HeroSubtitle  string
	AboutText     string
	Phone1        string
	Phone2        string
	Email         string
	HoursWeekdays string
	HoursSaturday string
	HoursSunday   string
	ServiceArea   string
}

func (h *SiteHandler) Index(w http.ResponseWriter, r *http.Request) {
	snap := h.contentService.Snapshot(r.Context())

	page := sitePage{
		HeroTitle:     snap.Get("hero", "title", content.DefaultHeroTitle),
		HeroSubtitle:  snap.Get("hero", "subtitle", content.DefaultHeroSubtitle),
		AboutText:     snap.Get("about", "text", content.DefaultAboutText),
		Phone1:        snap.Get("contact", "phone1", content.DefaultContactPhone1),
		Phone2:        snap.Get("contact", "phone2", content.DefaultContactPhone2),
		Email:         snap.Get("contact", "email", content.DefaultContactEmail),
		HoursWeekdays: snap.Get("hours", "weekdays", content.DefaultHoursWeekdays),
		HoursSaturday: snap.Get("hours", "saturday", content.DefaultHoursSaturday),
		HoursSunday:   snap.Get("hours", "sunday", content.DefaultHoursSunday),
		ServiceArea:   snap.Get("contact", "area", content.DefaultServiceArea),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		log.Error().Err(err).Msg("failed to render index page")
	}
}
