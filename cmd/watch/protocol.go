package watch

import (
	"encoding/json"
	"time"
)

const (
	routeIndex  = "/"
	routeEvents = "/events"
)

const sseEventGraph = "graph"

// graphSnapshot is one rebuild as sent to the viewer.
type graphSnapshot struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	DOT       string    `json:"dot"`
	Errors    []string  `json:"errors,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
}

func (s graphSnapshot) payload() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
