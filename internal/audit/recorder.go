package audit

import (
	"context"
	"sync"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultBufferSize = 256
	persistTimeout    = 5 * time.Second
)

// Recorder persists audit log entries asynchronously. Record never blocks
// request handling: entries are queued on a buffered channel and written by a
// single background worker. When the queue is full the entry is dropped and a
// warning logged; persistence failures are logged the same way. Audit
// write problems never surface to the request that triggered them.
type Recorder struct {
	logs   repository.LogRepository
	queue  chan *model.LogEntry
	done   chan struct{}
	logger zerolog.Logger

	closeOnce sync.Once
}

// NewRecorder starts the background worker and returns the recorder. Call
// Close during shutdown to drain queued entries.
func NewRecorder(logs repository.LogRepository, logger zerolog.Logger) *Recorder {
	r := &Recorder{
		logs:   logs,
		queue:  make(chan *model.LogEntry, defaultBufferSize),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "audit-recorder").Logger(),
	}
	go r.run()
	return r
}

// Record queues one entry for persistence. Entries offered after Close, or
// while the queue is full, are dropped with a warning.
func (r *Recorder) Record(e *model.LogEntry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	defer func() {
		if recover() != nil {
			r.logger.Warn().Str("action", e.Action).Msg("audit entry dropped: recorder closed")
		}
	}()
	select {
	case r.queue <- e:
	default:
		r.logger.Warn().Str("action", e.Action).Msg("audit entry dropped: queue full")
	}
}

// Close stops accepting entries and blocks until the worker has drained the
// queue.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
		<-r.done
	})
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.queue {
		r.persist(e)
	}
}

func (r *Recorder) persist(e *model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := r.logs.Create(ctx, e); err != nil {
		r.logger.Error().Err(err).
			Str("action", e.Action).
			Int64("user_id", e.UserID).
			Msg("failed to persist audit entry")
	}
}
