// Package scheduler runs the poll loop that turns homework status changes into notifications.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"homework_bot/internal/failure"
	"homework_bot/internal/homework"
	"homework_bot/internal/metrics"
	"homework_bot/internal/model"
)

// DefaultInterval is the pause between two polls.
const DefaultInterval = 600 * time.Second

// Fetcher is the interface for querying the homework API.
type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) (model.RawResponse, error)
}

// Notifier is the interface for delivering messages to the chat.
type Notifier interface {
	Notify(text string)
}

// Scheduler polls the homework API and notifies about status changes.
// It is single-threaded; Run must not be called concurrently.
type Scheduler struct {
	fetcher  Fetcher
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
	clock    Clock
	tick     time.Duration

	cursor      int64
	lastMessage string
}

// New creates a Scheduler with the real clock and the default interval.
func New(f Fetcher, n Notifier, m *metrics.Metrics, log *slog.Logger) *Scheduler {
	return &Scheduler{
		fetcher:  f,
		notifier: n,
		metrics:  m,
		log:      log,
		clock:    realClock{},
		tick:     DefaultInterval,
	}
}

// SetTickInterval overrides the default poll interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// SetClock replaces the clock (useful for testing).
func (s *Scheduler) SetClock(c Clock) {
	s.clock = c
}

// LastMessage returns the most recently delivered notification text.
func (s *Scheduler) LastMessage() string {
	return s.lastMessage
}

// Cursor returns the from_date that the next poll will use.
func (s *Scheduler) Cursor() int64 {
	return s.cursor
}

// Run starts the poll loop, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.cursor = s.clock.Now().Unix()
	s.log.Info("poll loop started", "interval", s.tick, "from_date", s.cursor)

	for {
		if ctx.Err() != nil {
			return
		}
		s.poll(ctx)
		if err := s.clock.Sleep(ctx, s.tick); err != nil {
			s.log.Info("poll loop stopped")
			return
		}
	}
}

// outcome is the result of one iteration before deduplication.
type outcome int

const (
	outcomeMessage outcome = iota
	outcomeEmpty
	outcomeInterrupted
)

func (s *Scheduler) poll(ctx context.Context) {
	s.metrics.ObservePoll()
	s.log.Debug("polling homework statuses", "from_date", s.cursor)

	msg, out := s.candidate(ctx)
	switch {
	case out == outcomeInterrupted:
	case out == outcomeEmpty:
		s.metrics.ObserveSuppressed(metrics.ReasonEmpty)
	case msg == s.lastMessage:
		s.log.Debug("status unchanged, notification suppressed")
		s.metrics.ObserveSuppressed(metrics.ReasonDuplicate)
	default:
		s.notifier.Notify(msg)
		s.lastMessage = msg
	}

	s.cursor = s.clock.Now().Unix()
}

// candidate returns the message this iteration would send.
// msg is only meaningful for outcomeMessage.
func (s *Scheduler) candidate(ctx context.Context) (msg string, out outcome) {
	raw, err := s.fetcher.Fetch(ctx, s.cursor)
	if err != nil {
		if ctx.Err() != nil {
			s.log.Debug("fetch interrupted by shutdown", "error", err)
			return "", outcomeInterrupted
		}
		return s.failed(err), outcomeMessage
	}

	homeworks, err := homework.Validate(raw)
	if err != nil {
		return s.failed(err), outcomeMessage
	}
	if len(homeworks) == 0 {
		s.log.Debug("no homework updates")
		return "", outcomeEmpty
	}

	text, err := homework.Format(homeworks[0])
	if err != nil {
		return s.failed(err), outcomeMessage
	}
	return text, outcomeMessage
}

func (s *Scheduler) failed(err error) string {
	kind := failure.KindOf(err)
	s.metrics.ObservePollFailure(kind.String())
	msg := homework.FailureMessage(err)
	s.log.Error("poll failed", "kind", kind, "error", err)
	return msg
}
