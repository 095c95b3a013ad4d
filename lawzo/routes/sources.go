package routes

import (
	"net/http"

	"lawzo/lawzo/controllers"

	"github.com/go-chi/chi/v5"
)

func SourceRoutes(ctrl *controllers.SourceController) chi.Router {
	r := chi.NewRouter()
	// GET /api/sources/{name...} : redirect to a presigned download
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		link, err := ctrl.Link(r.Context(), pathParam(r, "*"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		http.Redirect(w, r, link, http.StatusTemporaryRedirect)
	})
	return r
}
