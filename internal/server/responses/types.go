// Package responses defines JSON response types of the contentfeed HTTP server.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    float64                `json:"uptime"`
	LoadedAt  time.Time              `json:"loaded_at"`
	Stores    map[string]StoreHealth `json:"stores"`
}

// StoreHealth describes one content store of the served snapshot.
type StoreHealth struct {
	Available bool   `json:"available"`
	Records   int    `json:"records"`
	Error     string `json:"error,omitempty"`
}
