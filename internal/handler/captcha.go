package handler

import (
	"net/http"

	"github.com/dchest/captcha"
	"github.com/go-chi/chi/v5"
)

// CaptchaHandler issues challenges for the estimate form. Mounted only
// when captcha protection is enabled.
type CaptchaHandler struct{}

func NewCaptchaHandler() *CaptchaHandler {
	return &CaptchaHandler{}
}

func (h *CaptchaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/new", h.New)
	r.Mount("/image", captcha.Server(captcha.StdWidth, captcha.StdHeight))

	return r
}

func (h *CaptchaHandler) New(w http.ResponseWriter, r *http.Request) {
	id := captcha.New()
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
