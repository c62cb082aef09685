package watch

import (
	"fmt"
	"net/http"
	"sync"
)

// broker fans rebuilt graph snapshots out to the connected viewers.
type broker struct {
	mu      sync.Mutex
	clients map[chan graphSnapshot]struct{}
	latest  *graphSnapshot
}

func newBroker() *broker {
	return &broker{
		clients: make(map[chan graphSnapshot]struct{}),
	}
}

// subscribe registers a viewer. A viewer that connects after a build first
// receives the most recent snapshot.
func (b *broker) subscribe() chan graphSnapshot {
	ch := make(chan graphSnapshot, 1)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	if b.latest != nil {
		ch <- *b.latest
	}
	b.mu.Unlock()
	return ch
}

func (b *broker) unsubscribe(ch chan graphSnapshot) {
	b.mu.Lock()
	delete(b.clients, ch)
	close(ch)
	b.mu.Unlock()
}

// publish records s as the latest build and offers it to every viewer.
// Viewers still holding an older build skip the intermediate ones.
func (b *broker) publish(s graphSnapshot) {
	b.mu.Lock()
	b.latest = &s
	for ch := range b.clients {
		select {
		case ch <- s:
		default:
		}
	}
	b.mu.Unlock()
}

func newServer(b *broker) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(routeIndex, handleIndex)
	mux.HandleFunc(routeEvents, handleSSE(b))

	return &http.Server{Handler: mux}
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(indexHTML)); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func handleSSE(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := b.subscribe()
		defer b.unsubscribe(ch)

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case snapshot, ok := <-ch:
				if !ok {
					return
				}
				// encoded JSON never spans lines, so one data field carries it
				payload, err := snapshot.payload()
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sseEventGraph, payload)
				flusher.Flush()
			}
		}
	}
}
