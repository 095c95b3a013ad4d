package routes

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"

	"lawzo/lawzo/agents/core"
	"lawzo/lawzo/controllers"
	"lawzo/lawzo/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			if status >= http.StatusInternalServerError {
				logging.ErrorLogger.Error("request failed",
					zap.String("trace_id", middleware.GetReqID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

// statusFor maps controller and pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch core.CodeOf(err) {
	case core.CodeRateLimited:
		return http.StatusTooManyRequests
	case core.CodeForbidden:
		return http.StatusForbidden
	case core.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case core.CodeInvalidRequest:
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, controllers.ErrInvalidCategory),
		errors.Is(err, controllers.ErrInvalidLanguage),
		errors.Is(err, controllers.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, controllers.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, controllers.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
