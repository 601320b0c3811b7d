package core

import (
	"context"
	"log/slog"
	"time"
)

// Logger is the minimal leveled key-value logging surface used by the
// service. It matches the log/slog method shape so an slog handler can be
// plugged in directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NewSlogLogger adapts a *slog.Logger to the service Logger interface. A nil
// argument yields the process default logger.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// Clock supplies the current time so operations are reproducible in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns the current time from the wrapped function.
func (f ClockFunc) Now() time.Time { return f() }

// AuditStatus classifies an audit entry outcome.
type AuditStatus string

// Audit entry statuses.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry records one service operation for compliance trails.
type AuditEntry struct {
	Operation string      `json:"operation"`
	Status    AuditStatus `json:"status"`
	Owner     string      `json:"owner,omitempty"`
	EntityID  string      `json:"entity_id,omitempty"`
	Error     string      `json:"error,omitempty"`
	At        time.Time   `json:"at"`
}

// AuditRecorder accepts audit entries describing completed operations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// MetricsRecorder observes operation outcomes and durations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// TraceSpan ends a single traced operation.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type serviceOptions struct {
	logger  Logger
	clock   Clock
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	seeds   SeedSource
	sink    NotificationSink
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger: noopLogger{},
		clock:  ClockFunc(func() time.Time { return time.Now().UTC() }),
		seeds:  NewCryptoSeedSource(),
	}
}

// Option configures optional service collaborators.
type Option func(*serviceOptions)

// WithLogger overrides the service logger.
func WithLogger(logger Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithAuditRecorder wires an audit trail recorder.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(o *serviceOptions) { o.audit = recorder }
}

// WithMetricsRecorder wires an operation metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(o *serviceOptions) { o.metrics = recorder }
}

// WithTracer wires an operation tracer.
func WithTracer(tracer Tracer) Option {
	return func(o *serviceOptions) { o.tracer = tracer }
}

// WithSeedSource overrides the randomness collaborator. Deterministic
// sources make transitions replayable.
func WithSeedSource(source SeedSource) Option {
	return func(o *serviceOptions) {
		if source != nil {
			o.seeds = source
		}
	}
}

// WithNotificationSink wires the sink receiving transition events.
func WithNotificationSink(sink NotificationSink) Option {
	return func(o *serviceOptions) { o.sink = sink }
}
