package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/services"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

var feedTopics = map[string]bool{
	services.FeedTopicJobs:     true,
	services.FeedTopicHelpers:  true,
	services.FeedTopicWebboard: true,
	services.FeedTopicBlog:     true,
}

// FeedWebSocket streams listing/post change events to the client so open
// pages can refresh without polling. Topics come from the `topics` query
// parameter (comma-separated); an empty value subscribes to everything.
// Authentication uses the session token, via header or query parameter for
// browser WebSocket clients.
func FeedWebSocket(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	_, ok, err := services.ValidateSession(r.Context(), token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	var topics []string
	if raw := r.URL.Query().Get("topics"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if feedTopics[t] {
				topics = append(topics, t)
			}
		}
		if len(topics) == 0 {
			http.Error(w, "no valid topics", http.StatusBadRequest)
			return
		}
	} else {
		for t := range feedTopics {
			topics = append(topics, t)
		}
	}

	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	eventsCh, unsubscribe := services.SubscribeFeed(topics)
	defer unsubscribe()

	// Writer goroutine: forward feed events to this connection
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range eventsCh {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}()

	// Reader loop: the feed is one-way, but reading keeps pong handling and
	// disconnect detection alive.
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		select {
		case <-done:
			return
		default:
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	}
}
