package signup

import (
	"net/http"

	"github.com/ggicci/httpin"
	"github.com/go-chi/chi/v5"
)

// Router serves /signup and /reset_password. middlewares run before the form
// is decoded, e.g. CSRF protection and rate limiting.
func (h *Handle) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Group(func(r chi.Router) {
		r.Use(httpin.NewInput(Submission{}))
		r.Get("/signup", h.Signup)
		r.Post("/signup", h.Signup)
		r.Get("/reset_password", h.ResetPassword)
		r.Post("/reset_password", h.ResetPassword)
	})
	return r
}
