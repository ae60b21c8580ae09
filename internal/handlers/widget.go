package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zdr/communaute/internal/app"
	"github.com/zdr/communaute/internal/render"
	"github.com/zdr/communaute/internal/store"
)

// Uploads beyond this are rejected before they reach the stores.
const maxUploadBytes = 10 << 20

// WidgetHandler exposes the widget's views and actions to the tabs.
type WidgetHandler struct {
	App *app.App
}

type sendChatRequest struct {
	Text string `json:"text"`
}

type setNameRequest struct {
	Name string `json:"name"`
}

type widgetResponse struct {
	Name  string       `json:"name"`
	Views render.Views `json:"views"`
}

// GetWidget returns the current display name and all rendered fragments.
func (h *WidgetHandler) GetWidget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(widgetResponse{
		Name:  h.App.Name(),
		Views: h.App.Views(),
	})
}

// SetName changes the display name. Blank input is a silent no-op, matching
// the store.
func (h *WidgetHandler) SetName(w http.ResponseWriter, r *http.Request) {
	var req setNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.App.SetName(req.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *WidgetHandler) SendChat(w http.ResponseWriter, r *http.Request) {
	var req sendChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.App.SendChat(req.Text)
	if errors.Is(err, store.ErrEmptyMessage) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// ClearChat wipes the chat. The tab confirms with the user before calling.
func (h *WidgetHandler) ClearChat(w http.ResponseWriter, r *http.Request) {
	h.App.ClearChat()
	w.WriteHeader(http.StatusNoContent)
}

// Publish creates a feed post from a multipart form: a "text" field plus
// optional "before" and "after" image files. A read failure on either file
// aborts the publish before any store is touched.
func (h *WidgetHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	before, err := formImage(r, "before")
	if err != nil {
		http.Error(w, "impossible de lire la photo « avant »", http.StatusBadRequest)
		return
	}
	after, err := formImage(r, "after")
	if err != nil {
		http.Error(w, "impossible de lire la photo « après »", http.StatusBadRequest)
		return
	}

	post, err := h.App.Publish(r.FormValue("text"), before, after)
	if errors.Is(err, store.ErrEmptyPost) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// Like adds one like to a post. Unknown ids are a silent no-op.
func (h *WidgetHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.App.Like(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// CompleteMission credits one mission to the current user.
func (h *WidgetHandler) CompleteMission(w http.ResponseWriter, r *http.Request) {
	h.App.CompleteMission()
	w.WriteHeader(http.StatusNoContent)
}

func formImage(r *http.Request, field string) (*store.ImageFile, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &store.ImageFile{Name: header.Filename, Data: data}, nil
}
