package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
)

// Feed topics a client may subscribe to over the websocket.
const (
	FeedTopicJobs     = "jobs"
	FeedTopicHelpers  = "helpers"
	FeedTopicWebboard = "webboard"
	FeedTopicBlog     = "blog"
)

// FeedEvent is the payload broadcast over Redis and WebSocket when a listing
// or post changes, replacing per-client database listeners.
type FeedEvent struct {
	Type      string    `json:"type"` // "created", "updated", "deleted", "bumped"
	Topic     string    `json:"topic"`
	EntityID  string    `json:"entity_id"`
	Title     string    `json:"title,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type feedSubscriber struct {
	topics map[string]struct{}
	ch     chan FeedEvent
}

// FeedHub is the per-instance registry of websocket subscribers, fed by the
// shared Redis listener.
type FeedHub struct {
	mu     sync.RWMutex
	subs   map[int64]*feedSubscriber
	nextID int64
}

var (
	feedHub     = &FeedHub{subs: make(map[int64]*feedSubscriber)}
	feedStarted sync.Once
)

// SubscribeFeed registers a subscriber for the given topics and returns the
// event channel plus an unsubscribe function.
func SubscribeFeed(topics []string) (<-chan FeedEvent, func()) {
	sub := &feedSubscriber{
		topics: make(map[string]struct{}, len(topics)),
		ch:     make(chan FeedEvent, 16),
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	feedHub.mu.Lock()
	feedHub.nextID++
	id := feedHub.nextID
	feedHub.subs[id] = sub
	feedHub.mu.Unlock()

	unsubscribe := func() {
		feedHub.mu.Lock()
		if s, ok := feedHub.subs[id]; ok {
			delete(feedHub.subs, id)
			close(s.ch)
		}
		feedHub.mu.Unlock()
	}
	return sub.ch, unsubscribe
}

// FanOutFeedEvent delivers an event to all local subscribers of its topic.
// Slow consumers are skipped rather than blocking the fan-out.
func FanOutFeedEvent(event FeedEvent) {
	feedHub.mu.RLock()
	defer feedHub.mu.RUnlock()

	for _, sub := range feedHub.subs {
		if _, ok := sub.topics[event.Topic]; !ok {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// StartFeedSubscriber ensures a single shared Redis listener per instance.
func StartFeedSubscriber(ctx context.Context) {
	feedStarted.Do(func() {
		go runFeedSubscriber(ctx)
	})
}

func runFeedSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; feed subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, "feed:*")
			defer pubsub.Close()

			log.Println("✅ Feed Redis subscriber started (pattern: feed:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("feed subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event FeedEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal feed event: %v", err)
					continue
				}

				FanOutFeedEvent(event)
			}
		}()
	}
}

// PublishFeedEvent publishes an event to Redis; called after a successful
// listing/post mutation. Failures are logged, never surfaced to the caller:
// the write already happened.
func PublishFeedEvent(ctx context.Context, event FeedEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		LogError("feed publish marshal", err)
		return
	}

	if err := database.RedisClient.Publish(ctx, "feed:"+event.Topic, data).Err(); err != nil {
		LogError("feed publish", err)
	}
}
