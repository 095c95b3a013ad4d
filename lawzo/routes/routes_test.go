package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"lawzo/lawzo/agents/actions"
	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/agents/core"
	"lawzo/lawzo/agents/memory"
	"lawzo/lawzo/config"
	"lawzo/lawzo/controllers"
	"lawzo/lawzo/services/ratelimit"
	"lawzo/lawzo/sources/psql/dao"
	"lawzo/lawzo/sources/psql/psqltest"
	"lawzo/lawzo/sources/storage"
	"lawzo/lawzo/sources/vector"
	"lawzo/lawzo/utils/types"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-secret"

type routeModel struct{}

func (routeModel) Invoke(_ context.Context, p string) (string, error) {
	switch {
	case strings.HasPrefix(p, "You are a legal expert responsible for routing"):
		if strings.Contains(p, "divorce") {
			return "NO", nil
		}
		return "YES", nil
	case strings.HasPrefix(p, "You are Lawzo"):
		return "Theft is punishable under Section 379.", nil
	case strings.HasPrefix(p, "Rewrite the following response"):
		return "Theft can mean up to three years in prison.", nil
	case strings.HasPrefix(p, "You are a legal expert analyzing"):
		return "SUMMARY: A lease.\nKEY_POINTS:\n- Rent\nSUGGESTIONS:\n- Register it", nil
	}
	return "What is bail?", nil
}

type routeRetriever struct{}

func (routeRetriever) Search(context.Context, string) ([]vector.Passage, error) {
	return []vector.Passage{{Text: "s379", Metadata: map[string]string{"source": "ipc.pdf"}}}, nil
}

type fakeDocs struct{ keys []string }

func (f *fakeDocs) PutDocument(_ context.Context, userID, name, _, _ string) (string, error) {
	key := "documents/" + userID + "/" + name
	f.keys = append(f.keys, key)
	return key, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignSource(_ context.Context, name string, _ time.Duration) (*url.URL, error) {
	if name == "missing.pdf" {
		return nil, storage.ErrInvalidName
	}
	return url.Parse("https://minio.local/lawzo/sources/" + name + "?X-Amz-Signature=abc")
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeDocs) {
	t.Helper()
	cfg := config.Config{
		JWTSecret:                testSecret,
		RateLimitPerMinute:       100,
		PublicRateLimitPerMinute: 2,
		PipelineTimeout:          time.Minute,
	}
	catalog, err := config.LoadCatalog("")
	require.NoError(t, err)
	acfg, err := configs.LoadConfig("")
	require.NoError(t, err)

	convDAO := dao.NewConversationDAO(psqltest.NewDB(t))
	legal := actions.NewLegalActions(routeModel{}, routeRetriever{}, acfg)
	pipeline := core.NewPipeline(&core.Components{
		Actions:       legal,
		Memory:        memory.NewStore(memory.DefaultTurns),
		Conversations: convDAO,
		Limiter:       ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
		Catalog:       catalog,
	})
	docs := &fakeDocs{}
	r := NewRouter(Controllers{
		Health:     controllers.NewHealthController(nil),
		Categories: controllers.NewCategoryController(catalog),
		Chat:       controllers.NewChatController(pipeline, convDAO, catalog, cfg),
		Documents:  controllers.NewDocumentController(legal, docs, catalog),
		Sources:    controllers.NewSourceController(fakePresigner{}),
	}, cfg)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, docs
}

func token(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(t *testing.T, method, u, tok string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, u, &buf)
	require.NoError(t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthAndCatalogue(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/categories/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cats := decode[types.CategoryResponse](t, resp)
	assert.Contains(t, cats.Categories, "Criminal Law")

	resp = do(t, http.MethodGet, srv.URL+"/api/categories/languages", "", nil)
	langs := decode[types.LanguageResponse](t, resp)
	assert.Equal(t, "hi", langs.Languages["Hindi"])
}

func TestChatRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/api/chat/", "", types.ChatRequest{Query: "q", Category: "Civil Law"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCategoryChat(t *testing.T) {
	srv, _ := newTestServer(t)
	tok := token(t, "u1")

	resp := do(t, http.MethodPost, srv.URL+"/api/chat/category/Criminal%20Law", tok,
		types.ChatRequest{Query: "What is the punishment for theft?", SessionID: "s1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[types.ChatResponse](t, resp)
	assert.Equal(t, types.MessageAnswer, out.MessageType)
	assert.Equal(t, []string{"ipc.pdf"}, out.Sources)
	assert.NotEqual(t, "s1", out.ConversationID)

	resp = do(t, http.MethodGet, srv.URL+"/api/chat/conversations/"+out.ConversationID, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[types.ConversationDetailResponse](t, resp)
	assert.Equal(t, "s1", detail.SessionID)

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/category/Criminal%20Law", tok,
		types.ChatRequest{Query: "How do I file for divorce?", SessionID: "s1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decode[types.ChatResponse](t, resp)
	assert.Equal(t, types.MessageSuggestion, out.MessageType)
	assert.Contains(t, out.Answer, "Criminal Law")

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/category/Space%20Law", tok,
		types.ChatRequest{Query: "q", SessionID: "s1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/category/Criminal%20Law", tok,
		types.ChatRequest{Query: "q", SessionID: "s1", Language: "Klingon"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublicChat(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/chat/public/criminal-law", "",
		types.ChatRequest{Query: "What is the punishment for theft?", SessionID: "p1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[types.ChatResponse](t, resp)
	assert.True(t, strings.HasPrefix(out.ConversationID, "public-"))

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/public/criminal-law", "",
		types.ChatRequest{Query: "And for robbery?", SessionID: "p1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/public/criminal-law", "",
		types.ChatRequest{Query: "And for dacoity?", SessionID: "p1"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/public/astrology", "",
		types.ChatRequest{Query: "q", SessionID: "p1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConversationHistory(t *testing.T) {
	srv, _ := newTestServer(t)
	tok := token(t, "u1")

	resp := do(t, http.MethodPost, srv.URL+"/api/chat/session", tok, nil)
	session := decode[types.SessionResponse](t, resp)
	assert.Equal(t, "u1", session.UserID)
	require.Len(t, session.SessionID, 36)

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/", tok,
		types.ChatRequest{Query: "What is the punishment for theft?", Category: "criminal law", SessionID: session.SessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/chat/conversations?skip=0&limit=10", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[types.ConversationListResponse](t, resp)
	require.EqualValues(t, 1, list.Total)
	conv := list.Conversations[0]
	assert.Equal(t, "Criminal Law", conv.Category)
	assert.Equal(t, "Conversation about Criminal Law", conv.Title)

	resp = do(t, http.MethodGet, srv.URL+"/api/chat/conversations/"+conv.ID, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[types.ConversationDetailResponse](t, resp)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "user", detail.Messages[0].Role)
	assert.Equal(t, "assistant", detail.Messages[1].Role)

	resp = do(t, http.MethodGet, srv.URL+"/api/chat/conversations/"+conv.ID, token(t, "u2"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/chat/conversations/"+conv.ID, tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/api/chat/conversations/"+conv.ID, tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionOwnershipIsEnforced(t *testing.T) {
	srv, _ := newTestServer(t)
	body := types.ChatRequest{Query: "What is theft?", Category: "Criminal Law", SessionID: "shared"}
	resp := do(t, http.MethodPost, srv.URL+"/api/chat/", token(t, "u1"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/", token(t, "u2"), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDocumentAnalysis(t *testing.T) {
	srv, docs := newTestServer(t)
	tok := token(t, "u1")

	resp := do(t, http.MethodPost, srv.URL+"/api/documents/analyze", tok, types.DocumentAnalysisRequest{
		DocumentName: "lease.txt",
		DocumentType: "lease",
		Content:      "This lease is made between A and B.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[types.DocumentAnalysisResponse](t, resp)
	assert.Equal(t, "A lease.", out.Summary)
	assert.Equal(t, []string{"Rent"}, out.KeyPoints)
	assert.Equal(t, "documents/u1/lease.txt", out.StorageKey)
	assert.Len(t, docs.keys, 1)

	resp = do(t, http.MethodPost, srv.URL+"/api/documents/analyze", tok, types.DocumentAnalysisRequest{
		DocumentType: "poem",
		Content:      "roses are red",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSourceRedirect(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/sources/acts/ipc.pdf", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/sources/acts/ipc.pdf")

	resp = do(t, http.MethodGet, srv.URL+"/api/sources/missing.pdf", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatWebsocket(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/chat/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
		"token":    token(t, "u1"),
		"mode":     "category",
		"category": "Criminal Law",
		"chat_request": types.ChatRequest{
			Query:     "What is the punishment for theft?",
			SessionID: "ws-1",
		},
	}))

	var stages []string
	var final *types.ChatResponse
	for final == nil {
		var ev types.StageEvent
		require.NoError(t, wsjson.Read(ctx, conn, &ev))
		switch ev.Type {
		case "stage":
			stages = append(stages, ev.Stage)
		case "response":
			final = ev.Payload
		default:
			t.Fatalf("unexpected event %+v", ev)
		}
	}
	assert.Equal(t, types.MessageAnswer, final.MessageType)
	assert.Equal(t, string(core.StageRateCheck), stages[0])
	assert.Contains(t, stages, string(core.StageRelevanceGate))
	assert.Equal(t, string(core.StageRespond), stages[len(stages)-1])
}

func TestChatWebsocketRejectsBadToken(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/chat/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"token": "nope", "mode": "general"}))
	var ev types.StageEvent
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, "error", ev.Type)
	assert.Equal(t, "invalid token", ev.Error)

	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, statusFor(&core.Error{Code: core.CodeRateLimited}))
	assert.Equal(t, http.StatusBadRequest, statusFor(controllers.ErrInvalidCategory))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
