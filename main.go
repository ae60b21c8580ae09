package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/zdr/communaute/internal/app"
	"github.com/zdr/communaute/internal/handlers"
	"github.com/zdr/communaute/internal/kvstore"
	"github.com/zdr/communaute/internal/middleware"
	"github.com/zdr/communaute/internal/store"
	"github.com/zdr/communaute/internal/ws"
)

var addr = flag.String("addr", ":8990", "http service address")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file, using environment variables")
	}
	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(lvl)
	}

	// All tabs and all processes on this machine share one database file:
	// that is the whole "community".
	dbPath := getEnv("COMMUNAUTE_DB", "communaute.db")
	kv, err := kvstore.NewSQLite(dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open key-value store")
	}
	defer kv.Close()

	hub := ws.NewHub()
	go hub.Run()

	widget := app.New(kv, store.ClientSidePrompt{}, hub)
	handler := &handlers.WidgetHandler{App: widget}

	go watchExternalChanges(kv, widget, hub)

	r := mux.NewRouter()
	r.Use(middleware.Logging)

	// Widget API
	r.HandleFunc("/api/widget", handler.GetWidget).Methods("GET")
	r.HandleFunc("/api/name", handler.SetName).Methods("POST")
	r.HandleFunc("/api/chat", handler.SendChat).Methods("POST")
	r.HandleFunc("/api/chat/clear", handler.ClearChat).Methods("POST")
	r.HandleFunc("/api/posts", handler.Publish).Methods("POST")
	r.HandleFunc("/api/posts/{id}/like", handler.Like).Methods("POST")
	r.HandleFunc("/api/missions", handler.CompleteMission).Methods("POST")

	// Change notifications to the tabs
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, w, r)
	})

	// The widget page
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, "static/index.html")
	})
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("static")))

	logrus.WithFields(logrus.Fields{
		"addr": *addr,
		"db":   dbPath,
	}).Info("communauté widget started")
	logrus.Fatal(http.ListenAndServe(*addr, r))
}

// watchExternalChanges polls the database for writes made by other widget
// processes on this machine. SQLite can only tell us "something changed",
// not which key, so every tracked key is treated as changed — the refresh
// path re-renders everything anyway.
func watchExternalChanges(kv *kvstore.SQLiteStore, widget *app.App, hub *ws.Hub) {
	last, err := kv.DataVersion()
	if err != nil {
		logrus.WithError(err).Warn("external change watcher disabled")
		return
	}

	for range time.Tick(time.Second) {
		v, err := kv.DataVersion()
		if err != nil || v == last {
			continue
		}
		last = v

		for _, key := range []string{store.KeyName, store.KeyStats, store.KeyPosts, store.KeyChat} {
			widget.OnExternalChange(key)
			hub.KeyChanged(key)
		}
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
