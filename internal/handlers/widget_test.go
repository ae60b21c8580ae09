package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/zdr/communaute/internal/app"
	"github.com/zdr/communaute/internal/kvstore"
	"github.com/zdr/communaute/internal/models"
	"github.com/zdr/communaute/internal/store"
)

func newTestRouter(t *testing.T) (*mux.Router, *app.App) {
	t.Helper()
	widget := app.New(kvstore.NewMemory(), store.ClientSidePrompt{}, nil)
	h := &WidgetHandler{App: widget}

	r := mux.NewRouter()
	r.HandleFunc("/api/widget", h.GetWidget).Methods("GET")
	r.HandleFunc("/api/name", h.SetName).Methods("POST")
	r.HandleFunc("/api/chat", h.SendChat).Methods("POST")
	r.HandleFunc("/api/chat/clear", h.ClearChat).Methods("POST")
	r.HandleFunc("/api/posts", h.Publish).Methods("POST")
	r.HandleFunc("/api/posts/{id}/like", h.Like).Methods("POST")
	r.HandleFunc("/api/missions", h.CompleteMission).Methods("POST")
	return r, widget
}

func getWidget(t *testing.T, r *mux.Router) widgetResponse {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/widget", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp widgetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func postJSON(r *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGetWidgetFreshState(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := getWidget(t, r)
	require.Equal(t, "Anonyme", resp.Name)
	require.Contains(t, resp.Views.Chat, "Aucun message pour l’instant")
	require.Contains(t, resp.Views.Feed, "Aucun post pour l’instant")
}

func TestSendChatRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := postJSON(r, "/api/chat", map[string]string{"text": "salut tout le monde"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var msg models.ChatMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	require.Equal(t, "Anonyme", msg.Name)

	require.Contains(t, getWidget(t, r).Views.Chat, "salut tout le monde")
}

func TestSendChatRejectsBlankText(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := postJSON(r, "/api/chat", map[string]string{"text": "   "})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublishRejectsEmptyPost(t *testing.T) {
	r, _ := newTestRouter(t)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	form.WriteField("text", "   ")
	form.Close()

	req := httptest.NewRequest("POST", "/api/posts", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, getWidget(t, r).Views.Feed, "Aucun post pour l’instant")
}

func TestPublishWithImageAndLike(t *testing.T) {
	r, _ := newTestRouter(t)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	form.WriteField("text", "avant / après")
	part, err := form.CreateFormFile("before", "avant.png")
	require.NoError(t, err)
	part.Write([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/posts", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	require.NotEmpty(t, post.ID)

	views := getWidget(t, r).Views
	require.Contains(t, views.Feed, "data:image/png;base64,")
	require.Contains(t, views.Badge, "5 pts")

	likeRR := postJSON(r, "/api/posts/"+post.ID+"/like", nil)
	require.Equal(t, http.StatusNoContent, likeRR.Code)
	require.Contains(t, getWidget(t, r).Views.Feed, "❤️ 1")
}

func TestLikeUnknownPostIsSilentNoOp(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := postJSON(r, "/api/posts/does-not-exist/like", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestSetNameThenChatUsesNewName(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := postJSON(r, "/api/name", map[string]string{"name": " Maël "})
	require.Equal(t, http.StatusNoContent, rr.Code)

	resp := getWidget(t, r)
	require.Equal(t, "Maël", resp.Name)
	require.Contains(t, resp.Views.Leaderboard, "Maël")
}

func TestCompleteMission(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := postJSON(r, "/api/missions", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Contains(t, getWidget(t, r).Views.Badge, "10 pts")
}

func TestClearChat(t *testing.T) {
	r, _ := newTestRouter(t)

	postJSON(r, "/api/chat", map[string]string{"text": "bientôt effacé"})
	rr := postJSON(r, "/api/chat/clear", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Contains(t, getWidget(t, r).Views.Chat, "Aucun message pour l’instant")
}
