// Package polling implements the retry/backoff orchestration engine:
// it drives GET attempts against an endpoint whose result may not be
// ready yet, classifies each outcome, schedules waits between attempts
// and publishes progress events until a terminal state is reached.
package polling

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pollready/pollready/internal/core/domain"
	"github.com/pollready/pollready/internal/infra/fetch"
	"github.com/pollready/pollready/internal/polling/metrics"
)

// Requester performs one GET attempt. A cancelled ctx abandons the
// attempt without delivering an outcome.
type Requester interface {
	Do(ctx context.Context, url string) (*fetch.Outcome, error)
}

// Client runs polling operations. At most one operation is live per
// Client: starting a new one first cancels the previous stream, so the
// two never interleave events.
type Client struct {
	requester Requester
	log       *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc // live operation, superseded by the next Get
}

// NewClient creates a Client on top of the given requester.
func NewClient(requester Requester, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{requester: requester, log: log}
}

// Get starts one polling operation against url and returns its event
// stream. Option bounds are validated synchronously: a violation fails
// here, before any network activity. The stream closes when the
// operation completes or is cancelled; cancellation closes it without
// emitting anything further.
func (c *Client) Get(ctx context.Context, url string, opts Options) (<-chan domain.ProgressEvent, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	opCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel() // supersede: the previous stream goes silent before we emit
	}
	c.cancel = cancel
	c.mu.Unlock()

	id := uuid.New()
	op := &operation{
		id:        id,
		url:       url,
		opts:      opts,
		requester: c.requester,
		log:       c.log.With("operation", id.String()[:8], "url", url),
		events:    make(chan domain.ProgressEvent),
		ctx:       opCtx,
		cancel:    cancel,
		state:     domain.OpStateIdle,
		started:   time.Now(),
	}

	go op.run()

	return op.events, nil
}

// operation holds the mutable per-run context. It is owned exclusively
// by its run goroutine and never shared across Get invocations.
type operation struct {
	id        uuid.UUID
	url       string
	opts      Options
	requester Requester
	log       *slog.Logger

	events chan domain.ProgressEvent
	ctx    context.Context
	cancel context.CancelFunc

	state   State
	attempt int // failed attempts so far, incremented when a retry is scheduled
	started time.Time
}

// run drives the state machine to a terminal state. Closing the events
// channel is the completion signal for the caller.
func (o *operation) run() {
	defer close(o.events)
	defer o.cancel()

	for {
		if !o.transition(domain.OpStateRequesting) {
			return
		}

		outcome, err := o.requester.Do(o.ctx, o.url)
		if o.ctx.Err() != nil {
			o.abandon()
			return
		}
		if err != nil {
			// The attempt could not be dispatched at all. This sits
			// outside the classification table and is never retried.
			o.log.Error("request could not be dispatched", "error", err)
			o.complete("error", domain.ProgressEvent{Err: &domain.ErrorRecord{
				ErrorCode:    domain.ErrCodeUnknown,
				ErrorMessage: err.Error(),
			}})
			return
		}

		cl := Classify(outcome)
		metrics.AttemptsTotal.WithLabelValues(cl.Kind.String()).Inc()

		if cl.Kind == KindReady {
			o.log.Info("data ready", "attempts", o.attempt)
			o.complete("ready", domain.ProgressEvent{Ready: true, Data: cl.Data, Loading: false})
			return
		}

		if !o.retryable(cl.Kind) {
			o.log.Warn("terminal failure", "code", cl.Code, "message", cl.Message)
			o.complete("error", domain.ProgressEvent{Err: &domain.ErrorRecord{
				ErrorCode:    cl.Code,
				ErrorMessage: cl.Message,
			}})
			return
		}

		if o.attempt >= o.opts.Retries {
			o.log.Warn("retry budget exhausted", "attempts", o.attempt, "code", cl.Code)
			o.complete("error", domain.ProgressEvent{Err: o.exhaustedRecord(cl)})
			return
		}

		delay := Delay(o.opts.Interval, o.attempt, o.opts.Strategy)
		o.attempt++
		metrics.RetriesTotal.WithLabelValues(cl.Code.String()).Inc()
		o.log.Debug("scheduling retry",
			"attempt", o.attempt, "max", o.opts.Retries, "delay", delay, "code", cl.Code)

		if !o.awaitRetry(delay, cl) {
			o.abandon()
			return
		}
		if !o.opts.NoUpdates {
			if !o.emit(domain.ProgressEvent{Loading: true}) {
				o.abandon()
				return
			}
		}
	}
}

// awaitRetry waits out one backoff window, emitting the configured
// updates. It returns false if the operation was cancelled mid-wait.
func (o *operation) awaitRetry(delay time.Duration, cl Classification) bool {
	if !o.transition(domain.OpStateAwaitingRetry) {
		return false
	}

	switch {
	case o.opts.NoUpdates:
		// silent wait, only the terminal event will be emitted

	case o.opts.LiveUpdates:
		for remaining := range Countdown(o.ctx, delay, o.opts.UpdateInterval) {
			rec := o.retryRecord(cl)
			rec.Delay = RemainingSeconds(remaining)
			rec.Message = fmt.Sprintf("Attempt %d of %d, retrying in %ds",
				o.attempt, o.opts.Retries, rec.Delay)
			if !o.emit(domain.ProgressEvent{Err: rec}) {
				return false
			}
		}
		// The countdown consumed the window (or the ctx fired).
		return o.ctx.Err() == nil

	default:
		rec := o.retryRecord(cl)
		rec.Delay = RemainingSeconds(delay)
		rec.Message = fmt.Sprintf("Attempt %d of %d", o.attempt, o.opts.Retries)
		if !o.emit(domain.ProgressEvent{Err: rec}) {
			return false
		}
	}

	if delay <= 0 {
		return true
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-o.ctx.Done():
		return false
	}
}

func (o *operation) retryable(k Kind) bool {
	switch k {
	case KindNotReady:
		return true
	case KindFormatInvalid:
		return o.opts.RetryOnUnexpectedFormat
	case KindServerFailure:
		return o.opts.RetryOnServerFailure
	default:
		return false
	}
}

// retryRecord builds the intermediate update for a scheduled retry.
func (o *operation) retryRecord(cl Classification) *domain.ErrorRecord {
	return &domain.ErrorRecord{
		ErrorCode:    cl.Code,
		ErrorMessage: cl.Message,
		Attempts:     o.attempt,
		MaxRetries:   o.opts.Retries,
	}
}

// exhaustedRecord wraps the last classification's code with the attempt
// accounting for the max-retries terminal event.
func (o *operation) exhaustedRecord(cl Classification) *domain.ErrorRecord {
	return &domain.ErrorRecord{
		ErrorCode:    cl.Code,
		ErrorMessage: cl.Message,
		Message:      fmt.Sprintf("max retries exceeded after %d attempts", o.attempt),
		Attempts:     o.attempt,
		MaxRetries:   o.opts.Retries,
		TotalDelay:   int(time.Since(o.started).Seconds()),
	}
}

// complete emits the terminal event and moves to Completed. If the
// caller cancelled while we were about to emit, the operation is
// abandoned instead and nothing is delivered.
func (o *operation) complete(result string, ev domain.ProgressEvent) {
	if !o.emit(ev) {
		o.abandon()
		return
	}
	o.transition(domain.OpStateCompleted)
	metrics.OperationsTotal.WithLabelValues(result).Inc()
}

// abandon moves to Cancelled without emitting anything further.
func (o *operation) abandon() {
	if o.transition(domain.OpStateCancelled) {
		metrics.OperationsTotal.WithLabelValues("cancelled").Inc()
		o.log.Debug("operation cancelled", "attempts", o.attempt)
	}
}

// emit delivers one event unless the operation has been cancelled.
// Events go over an unbuffered channel, so ordering follows emission
// order exactly and nothing is delivered after cancellation wins.
func (o *operation) emit(ev domain.ProgressEvent) bool {
	if o.ctx.Err() != nil {
		return false
	}
	select {
	case o.events <- ev:
		return true
	case <-o.ctx.Done():
		return false
	}
}

// transition applies a state change if the table allows it. Terminal
// states absorb every request.
func (o *operation) transition(to State) bool {
	if !CanTransition(o.state, to) {
		return false
	}
	o.state = to
	return true
}
