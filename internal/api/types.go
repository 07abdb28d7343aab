package api

import "github.com/mattjoyce/chirpgw/internal/events"

// Config holds API server configuration.
type Config struct {
	Listen string
	APIKey string
}

// HealthResponse is the JSON body for GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	QueueDepth    int    `json:"queue_depth"`
}

// ActivityResponse is the JSON body for GET /api/v1/activity.
type ActivityResponse struct {
	Activity []events.Activity `json:"activity"`
}

// ErrorResponse is the JSON body for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// QueueDepther reports pending relay work for the health endpoint.
type QueueDepther interface {
	Depth() int
}
