package health

import (
	"encoding/json"
	"net/http"
)

const (
	StatusHealthy  = "healthy"
	StatusStarting = "starting"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Handler reports healthy once ready returns true, and 503 "starting" before
// that. A nil ready is always healthy.
func Handler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ready != nil && !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(Response{Status: StatusStarting})
			return
		}
		_ = json.NewEncoder(w).Encode(Response{Status: StatusHealthy})
	}
}
