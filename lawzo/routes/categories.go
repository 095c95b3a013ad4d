package routes

import (
	"net/http"

	"lawzo/lawzo/controllers"

	"github.com/go-chi/chi/v5"
)

func CategoryRoutes(ctrl *controllers.CategoryController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Categories(), http.StatusOK, nil
	}))
	r.Get("/languages", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Languages(), http.StatusOK, nil
	}))
	return r
}
