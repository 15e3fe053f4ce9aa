package sender

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/magnitronlab/preorder-bot/core/logger"
	"github.com/magnitronlab/preorder-bot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize int
	Workers   int
	// MaxRetries is the number of extra attempts after a transient failure; 0 means one attempt.
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent on a single job including retries.
	MaxDuration time.Duration
}

type job struct {
	ctx    context.Context
	action string
	run    func(ctx context.Context) error
}

// Dispatcher executes outbound Telegram calls asynchronously.
// Failures are logged and counted, never returned to the caller that enqueued the job.
type Dispatcher struct {
	opts Options
	jobs chan job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	sent atomic.Uint64
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher with sane defaults if options are zeroed.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan job, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue schedules run for asynchronous execution. The context passed to run is detached
// from ctx's cancellation but keeps its values, so log correlation survives the handler returning.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func(ctx context.Context) error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- job{ctx: context.WithoutCancel(ctx), action: action, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Sent returns the number of jobs that completed successfully.
func (d *Dispatcher) Sent() uint64 {
	return d.sent.Load()
}

// ErrorCount returns the number of failed jobs.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handleJob(j)
	}
}

func (d *Dispatcher) handleJob(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempts := d.opts.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = j.run(ctx)
		if lastErr == nil {
			d.sent.Add(1)
			logger.Debug(ctx, "tg.sender", "send.success",
				slog.String("action", j.action),
				slog.Int("attempt", attempt),
				slog.Duration("elapsed", logger.Took(start)),
			)
			return
		}
		if attempt == attempts || !netutil.ShouldRetry(lastErr) {
			break
		}
		timer := time.NewTimer(d.opts.RetryBackoff * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			lastErr = errors.Join(lastErr, ctx.Err())
			attempt = attempts
		case <-timer.C:
		}
	}

	d.errs.Add(1)
	logger.Error(ctx, "tg.sender", "send.fail",
		slog.String("status", "fail"),
		slog.String("action", j.action),
		slog.String("err", sanitizeErrorMessage(lastErr)),
		slog.String("err_code", classifyError(lastErr)),
		slog.Int("attempts", attempts),
		slog.Duration("elapsed", logger.Took(start)),
	)
}

func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "dial"
	}

	status := 0
	var apiErr *tele.Error
	var floodErr tele.FloodError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Code
	case errors.As(err, &floodErr):
		status = http.StatusTooManyRequests
	}
	switch {
	case status == http.StatusTooManyRequests:
		return "flood"
	case status == http.StatusForbidden:
		return "blocked"
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "unknown"
}

// sanitizeErrorMessage prevents accidental leakage of Telegram bot tokens in logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
