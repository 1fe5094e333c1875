package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/spotlesscleaning/site-server-go/internal/audit"
	apperrors "github.com/spotlesscleaning/site-server-go/internal/errors"
	"github.com/spotlesscleaning/site-server-go/internal/httputil"
	"github.com/spotlesscleaning/site-server-go/internal/service"
	"github.com/spotlesscleaning/site-server-go/internal/storage"
)

type EstimateHandler struct {
	estimateService   *service.EstimateService
	objectStore       *storage.ObjectStore
	sessionMiddleware func(http.Handler) http.Handler
	rateLimit         func(http.Handler) http.Handler
}

func NewEstimateHandler(
	estimateService *service.EstimateService,
	objectStore *storage.ObjectStore,
	sessionMiddleware func(http.Handler) http.Handler,
	rateLimit func(http.Handler) http.Handler,
) *EstimateHandler {
	return &EstimateHandler{
		estimateService:   estimateService,
		objectStore:       objectStore,
		sessionMiddleware: sessionMiddleware,
		rateLimit:         rateLimit,
	}
}

func (h *EstimateHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.rateLimit).Post("/", h.Submit)
	r.With(h.rateLimit).Post("/uploads", h.PresignUpload)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)
		r.Get("/", h.List)
		r.Get("/{id}/attachments", h.ListAttachments)
	})

	return r
}

// PresignUpload hands the browser a short-lived PUT URL so photos go
// straight to the bucket without passing through this server.
func (h *EstimateHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	if h.objectStore == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Photo uploads are not available"})
		return
	}

	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "filename is required"})
		return
	}

	key, url, err := h.objectStore.PresignUpload(r.Context(), req.ContentType)
	if err != nil {
		log.Error().Err(err).Msg("failed to presign upload")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to prepare upload"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"key": key,
		"url": url,
	})
}

func (h *EstimateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string                    `json:"name"`
		Email           string                    `json:"email"`
		Phone           string                    `json:"phone"`
		Address         string                    `json:"address"`
		Message         string                    `json:"message"`
		Attachments     []service.AttachmentInput `json:"attachments"`
		CaptchaID       string                    `json:"captchaId"`
		CaptchaSolution string                    `json:"captchaSolution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	request, err := h.estimateService.Submit(r.Context(), service.SubmitEstimateParams{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Message:         req.Message,
		Attachments:     req.Attachments,
		CaptchaID:       req.CaptchaID,
		CaptchaSolution: req.CaptchaSolution,
	})
	if err != nil {
		switch apperrors.GetCode(err) {
		case apperrors.ErrCodeStoreUnavailable, apperrors.ErrCodeInternal:
			log.Error().Err(err).Msg("failed to submit estimate request")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to submit estimate request"})
		default:
			httputil.WriteError(w, err)
		}
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventEstimateSubmit,
		Details: map[string]interface{}{"requestId": request.ID, "attachments": len(req.Attachments)},
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      request.ID,
	})
}

func (h *EstimateHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	requests, total, err := h.estimateService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list estimate requests")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": requests,
		"total": total,
	})
}

func (h *EstimateHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	attachments, err := h.estimateService.Attachments(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("failed to list attachments")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": attachments,
		"total": len(attachments),
	})
}
