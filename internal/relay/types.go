package relay

import (
	"context"
	"errors"
	"time"

	"github.com/mattjoyce/chirpgw/internal/twitter"
)

//go:generate mockgen -destination=mocks/mock_relay.go -package=mocks github.com/mattjoyce/chirpgw/internal/relay Searcher,Publisher

// Searcher queries the search provider for statuses matching query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]twitter.Status, error)
}

// Publisher posts a message into a space.
type Publisher interface {
	SendMessage(ctx context.Context, spaceID, text string) error
}

// EnqueueRequest is a triggered message handed off by the webhook server.
type EnqueueRequest struct {
	SpaceID string
	Query   string
}

// Delivery is one queued unit of relay work.
type Delivery struct {
	ID         string
	SpaceID    string
	Query      string
	ReceivedAt time.Time
}

// ErrQueueFull is returned when the delivery queue cannot accept more work.
var ErrQueueFull = errors.New("delivery queue is full")

// Config holds relay behavior settings.
type Config struct {
	MaxResults  int
	FailMessage string
}
