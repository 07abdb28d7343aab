// Package relay consumes queued deliveries and runs the
// search -> format -> publish pipeline for each one.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattjoyce/chirpgw/internal/events"
	"github.com/mattjoyce/chirpgw/internal/log"
)

// Relay is the dispatch loop behind the webhook ack. Deliveries are processed
// serially; the inbound HTTP connection is long gone by the time work runs,
// so failures here are logged or relayed, never surfaced to the requester.
type Relay struct {
	queue     *Queue
	searcher  Searcher
	publisher Publisher
	hub       *events.Hub
	cfg       Config
	logger    *slog.Logger
}

// New creates a Relay.
func New(q *Queue, searcher Searcher, publisher Publisher, hub *events.Hub, cfg Config) *Relay {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}
	return &Relay{
		queue:     q,
		searcher:  searcher,
		publisher: publisher,
		hub:       hub,
		cfg:       cfg,
		logger:    log.WithComponent("relay"),
	}
}

// Start runs the delivery loop until ctx is cancelled. A rejected
// client-credentials exchange is fatal: the error propagates out so the
// service can abort rather than limp along without valid credentials.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info("relay loop started")
	defer r.logger.Info("relay loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-r.queue.Deliveries():
			if err := r.Process(ctx, d); err != nil {
				return fmt.Errorf("relay delivery %s: %w", d.ID, err)
			}
		}
	}
}

// Process runs one delivery end to end. Only an auth rejection is returned;
// every other failure is absorbed here.
func (r *Relay) Process(ctx context.Context, d Delivery) error {
	logger := log.WithDelivery(d.ID).With("space_id", d.SpaceID, "query", d.Query)
	logger.Info("processing delivery")
	started := time.Now()

	statuses, err := r.searcher.Search(ctx, d.Query)
	if err != nil {
		logger.Warn("search failed, relaying failure message", "error", err)
		if perr := r.publisher.SendMessage(ctx, d.SpaceID, r.cfg.FailMessage); perr != nil {
			return r.absorbPublishError(logger, d, started, perr)
		}
		r.record(d, events.OutcomeSearchFailed, 0, started)
		return nil
	}

	message := FormatResults(statuses, r.cfg.MaxResults)
	outcome := events.OutcomeRelayed
	if message == "" {
		// Empty result sets still relay a blank message. Deliberate: the
		// upstream behavior is preserved and flagged here instead of fixed.
		logger.Warn("search returned no results, relaying empty message")
		outcome = events.OutcomeEmpty
	}

	logger.Info("posting search results back to space", "results", len(statuses))
	if perr := r.publisher.SendMessage(ctx, d.SpaceID, message); perr != nil {
		return r.absorbPublishError(logger, d, started, perr)
	}

	r.record(d, outcome, len(statuses), started)
	return nil
}

// absorbPublishError logs a publish failure and swallows it, unless the
// token exchange itself was rejected, which escalates.
func (r *Relay) absorbPublishError(logger *slog.Logger, d Delivery, started time.Time, err error) error {
	if IsFatal(err) {
		return err
	}
	logger.Error("publish failed", "error", err)
	r.record(d, events.OutcomePublishFailed, 0, started)
	return nil
}

// record notes the delivery outcome in the activity hub, if one is attached.
func (r *Relay) record(d Delivery, outcome string, results int, started time.Time) {
	if r.hub == nil {
		return
	}
	r.hub.Record(events.Activity{
		SpaceID:    d.SpaceID,
		Query:      d.Query,
		Outcome:    outcome,
		Results:    results,
		DurationMS: time.Since(started).Milliseconds(),
	})
}
