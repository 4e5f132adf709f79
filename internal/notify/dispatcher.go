package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"credverify/pkg/requestcontext"
)

const (
	defaultBatchSize   = 32
	defaultSendTimeout = 10 * time.Second
)

// Dispatcher buffers notifications and fans them out to every sink from a
// single background goroutine. Notify never blocks. Sink errors are logged
// and counted, never returned.
type Dispatcher struct {
	buffer      *RingBuffer
	sinks       []Sink
	logger      *slog.Logger
	metrics     *Metrics
	sendTimeout time.Duration

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithBufferSize(n int) Option {
	return func(d *Dispatcher) { d.buffer = NewRingBuffer(n) }
}

func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

func NewDispatcher(sinks []Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sinks:       sinks,
		logger:      slog.Default(),
		sendTimeout: defaultSendTimeout,
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.buffer == nil {
		d.buffer = NewRingBuffer(0)
	}
	return d
}

// Notify enqueues n for delivery.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if n.OccurredAt.IsZero() {
		n.OccurredAt = requestcontext.Now(ctx)
	}
	if d.buffer.Enqueue(n) {
		d.metrics.IncDropped()
		d.logger.WarnContext(ctx, "notification buffer full, dropped oldest",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", n.VerificationID.String(),
		)
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Start launches the delivery loop. It returns immediately.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		go d.run()
	})
}

// Close stops the loop after delivering what is buffered, or when ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.Start()
	d.stopOnce.Do(func() { close(d.stop) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.wake:
			d.drain()
		case <-d.stop:
			d.drain()
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		batch := d.buffer.DequeueBatch(defaultBatchSize)
		if len(batch) == 0 {
			return
		}
		for _, n := range batch {
			d.deliver(n)
		}
	}
}

func (d *Dispatcher) deliver(n Notification) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := sink.Send(ctx, n)
		cancel()
		if err != nil {
			d.metrics.IncSent(sink.Name(), "error")
			d.logger.Warn("notification delivery failed",
				"sink", sink.Name(),
				"type", string(n.Type),
				"verification_id", n.VerificationID.String(),
				"reference", n.Reference,
				"error", err,
			)
			continue
		}
		d.metrics.IncSent(sink.Name(), "ok")
	}
}
