package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/spotlesscleaning/site-server-go/internal/audit"
	"github.com/spotlesscleaning/site-server-go/internal/content"
	apperrors "github.com/spotlesscleaning/site-server-go/internal/errors"
	"github.com/spotlesscleaning/site-server-go/internal/middleware"
	"github.com/spotlesscleaning/site-server-go/internal/service"
)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// List is public: the site renderer and the admin editor both read the
// same snapshot.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.contentService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list content")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch content"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"content": entries})
}

// Update upserts one (section, key) value. Reached only through the
// session middleware.
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Section string `json:"section"`
		Key     string `json:"key"`
		Value   string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	_, err := h.contentService.Upsert(r.Context(), req.Section, req.Key, req.Value)
	if err != nil {
		switch apperrors.GetCode(err) {
		case apperrors.ErrCodeMissingRequired:
			appErr, _ := apperrors.AsAppError(err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": appErr.Message})
		default:
			log.Error().Err(err).Str("section", req.Section).Str("key", req.Key).Msg("failed to update content")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update content"})
		}
		return
	}

	admin := middleware.GetAdmin(r.Context())
	event := audit.Event{
		Type:    audit.EventContentUpdate,
		Details: map[string]interface{}{"section": req.Section, "key": req.Key},
	}
	if admin != nil {
		event.UserID = admin.ID
	}
	audit.LogFromRequest(r, event)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Fields lists the tracked (section, key) pairs with labels and default
// values, so the editor renders one input per pair without hardcoding
// them client-side.
func (h *ContentHandler) Fields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fields": content.TrackedFields()})
}
