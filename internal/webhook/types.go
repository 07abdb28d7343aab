package webhook

import (
	"context"

	"github.com/mattjoyce/chirpgw/internal/relay"
)

// DeliveryQueuer defines the interface for handing triggered messages to the
// relay pipeline.
type DeliveryQueuer interface {
	Enqueue(ctx context.Context, req relay.EnqueueRequest) (string, error)
}

// EventType classifies an inbound event. The platform sends the type as a
// string; anything outside the known set parses to EventUnknown and is
// acknowledged without further work.
type EventType int

const (
	EventUnknown EventType = iota
	EventVerification
	EventMessageCreated
)

// ParseEventType maps the wire string to an EventType.
func ParseEventType(s string) EventType {
	switch s {
	case "verification":
		return EventVerification
	case "message-created":
		return EventMessageCreated
	default:
		return EventUnknown
	}
}

// InboundEvent is the webhook payload. One per request, never persisted.
type InboundEvent struct {
	Type      string `json:"type"`
	SpaceID   string `json:"spaceId"`
	Content   string `json:"content"`
	Challenge string `json:"challenge,omitempty"`
}

// VerificationResponse echoes the challenge back to the platform. Its JSON
// encoding is also the exact message the signature is computed over.
type VerificationResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the JSON body for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Config holds webhook server configuration.
type Config struct {
	Listen      string
	Secret      string
	Keyword     string
	MaxBodySize int64
}
