package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"lawzo/lawzo/agents/core"
	"lawzo/lawzo/config"
	"lawzo/lawzo/controllers"
	"lawzo/lawzo/middlewares"
	"lawzo/lawzo/utils/logging"
	"lawzo/lawzo/utils/types"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	chatHandler := func(mode controllers.ChatMode) http.HandlerFunc {
		return handleJSON(func(r *http.Request) (any, int, error) {
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			userID, _ := middlewares.UserID(r.Context())
			resp, err := ctrl.Chat(r.Context(), controllers.ChatInput{
				Mode:         mode,
				UserID:       userID,
				ClientIP:     clientIP(r),
				PathCategory: pathParam(r, "category"),
				Request:      req,
			})
			if err != nil {
				return nil, statusFor(err), err
			}
			return resp, http.StatusOK, nil
		})
	}

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /api/chat/ : general chat, no relevance gate
		gr.Post("/", chatHandler(controllers.ModeGeneral))
		// POST /api/chat/category/{category} : strict category chat
		gr.Post("/category/{category}", chatHandler(controllers.ModeCategory))

		gr.Get("/conversations", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			res, err := ctrl.ListConversations(r.Context(), userID, skip, limit)
			if err != nil {
				return nil, statusFor(err), err
			}
			return res, http.StatusOK, nil
		}))

		gr.Get("/conversations/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			res, err := ctrl.GetConversation(r.Context(), userID, chi.URLParam(r, "id"))
			if err != nil {
				return nil, statusFor(err), err
			}
			return res, http.StatusOK, nil
		}))

		gr.Delete("/conversations/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			if err := ctrl.DeleteConversation(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
				return nil, statusFor(err), err
			}
			return map[string]string{"status": "deleted"}, http.StatusOK, nil
		}))
	})

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.OptionalAuthMiddleware(cfg))

		// POST /api/chat/public/{category} : strict chat, identity optional
		gr.Post("/public/{category}", chatHandler(controllers.ModePublic))

		gr.Post("/session", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			return ctrl.CreateSession(userID), http.StatusOK, nil
		}))
	})

	r.HandleFunc("/ws", chatSocket(ctrl, cfg))
	return r
}

type socketInput struct {
	Token       string            `json:"token"`
	Mode        string            `json:"mode"`
	Category    string            `json:"category"`
	ChatRequest types.ChatRequest `json:"chat_request"`
}

// chatSocket runs one chat turn per connection. The first text frame carries
// the token and request; stage events are pushed as the pipeline advances and
// the final frame holds the response or an error.
func chatSocket(ctrl *controllers.ChatController, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		var input socketInput
		if err := wsjson.Read(ctx, conn, &input); err != nil {
			wsjson.Write(ctx, conn, types.StageEvent{Type: "error", Error: "invalid json"})
			conn.Close(websocket.StatusUnsupportedData, "invalid json")
			return
		}

		mode, err := parseMode(input.Mode)
		if err != nil {
			wsjson.Write(ctx, conn, types.StageEvent{Type: "error", Error: err.Error()})
			conn.Close(websocket.StatusPolicyViolation, "invalid mode")
			return
		}

		userID, err := middlewares.ParseToken(cfg.JWTSecret, input.Token)
		if err != nil && mode != controllers.ModePublic {
			wsjson.Write(ctx, conn, types.StageEvent{Type: "error", Error: "invalid token"})
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		observer := func(stage core.Stage) {
			if err := wsjson.Write(ctx, conn, types.StageEvent{Type: "stage", Stage: string(stage)}); err != nil {
				logging.AppLogger.Debug("stage event dropped", zap.Error(err))
			}
		}
		resp, err := ctrl.Chat(ctx, controllers.ChatInput{
			Mode:         mode,
			UserID:       userID,
			ClientIP:     clientIP(r),
			PathCategory: input.Category,
			Request:      input.ChatRequest,
			Observer:     observer,
		})
		if err != nil {
			wsjson.Write(ctx, conn, types.StageEvent{Type: "error", Error: err.Error()})
			conn.Close(websocket.StatusPolicyViolation, http.StatusText(statusFor(err)))
			return
		}
		if err := wsjson.Write(ctx, conn, types.StageEvent{Type: "response", Payload: resp}); err != nil {
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

func parseMode(s string) (controllers.ChatMode, error) {
	switch s {
	case "", "general":
		return controllers.ModeGeneral, nil
	case "category":
		return controllers.ModeCategory, nil
	case "public":
		return controllers.ModePublic, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}
