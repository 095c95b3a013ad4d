package routes

import (
	"encoding/json"
	"net/http"

	"lawzo/lawzo/config"
	"lawzo/lawzo/controllers"
	"lawzo/lawzo/middlewares"
	"lawzo/lawzo/utils/types"

	"github.com/go-chi/chi/v5"
)

const maxDocumentBody = 4 << 20

func DocumentRoutes(ctrl *controllers.DocumentController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Post("/analyze", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.DocumentAnalysisRequest
			body := http.MaxBytesReader(nil, r.Body, maxDocumentBody)
			if err := json.NewDecoder(body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			userID, _ := middlewares.UserID(r.Context())
			res, err := ctrl.Analyze(r.Context(), userID, req)
			if err != nil {
				return nil, statusFor(err), err
			}
			return res, http.StatusOK, nil
		}))
	})
	return r
}
