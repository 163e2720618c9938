package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/steveyegge/td/internal/storage"
	"github.com/steveyegge/td/internal/types"
)

const storageScopeName = "github.com/steveyegge/td/storage"

// InstrumentedStorage wraps storage.Storage with OTel tracing and metrics.
// Every method gets a span and is counted in td.storage.* metrics.
// Use WrapStorage to create one; it returns the original store unchanged when
// telemetry is disabled.
type InstrumentedStorage struct {
	inner  storage.Storage
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapStorage returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is with zero overhead.
func WrapStorage(s storage.Storage) storage.Storage {
	if !Enabled() {
		return s
	}
	return newInstrumentedStorage(s, Tracer(storageScopeName), Meter(storageScopeName))
}

func newInstrumentedStorage(s storage.Storage, tracer trace.Tracer, m metric.Meter) *InstrumentedStorage {
	ops, _ := m.Int64Counter("td.storage.operations",
		metric.WithDescription("Total storage operations executed"),
	)
	dur, _ := m.Float64Histogram("td.storage.operation.duration",
		metric.WithDescription("Storage operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("td.storage.errors",
		metric.WithDescription("Total storage operation errors"),
	)
	return &InstrumentedStorage{
		inner:  s,
		tracer: tracer,
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// op starts a span and records a metric for the named storage operation.
func (s *InstrumentedStorage) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("db.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "storage."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error. A missing key is
// a normal outcome and is not counted as an error.
func (s *InstrumentedStorage) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedStorage) Get(ctx context.Context, key string) (string, error) {
	attrs := []attribute.KeyValue{attribute.String("td.storage.key", key)}
	ctx, span, t := s.op(ctx, "Get", attrs...)
	v, err := s.inner.Get(ctx, key)
	span.SetAttributes(attribute.Bool("td.storage.hit", err == nil))
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStorage) Set(ctx context.Context, key, value string) error {
	attrs := []attribute.KeyValue{attribute.String("td.storage.key", key)}
	ctx, span, t := s.op(ctx, "Set", attrs...)
	span.SetAttributes(attribute.Int("td.storage.value_bytes", len(value)))
	err := s.inner.Set(ctx, key, value)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStorage) Delete(ctx context.Context, key string) error {
	attrs := []attribute.KeyValue{attribute.String("td.storage.key", key)}
	ctx, span, t := s.op(ctx, "Delete", attrs...)
	err := s.inner.Delete(ctx, key)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStorage) Keys(ctx context.Context) ([]string, error) {
	ctx, span, t := s.op(ctx, "Keys")
	keys, err := s.inner.Keys(ctx)
	span.SetAttributes(attribute.Int("td.storage.key_count", len(keys)))
	s.done(ctx, span, t, err)
	return keys, err
}

func (s *InstrumentedStorage) Close() error {
	ctx, span, t := s.op(context.Background(), "Close")
	err := s.inner.Close()
	s.done(ctx, span, t, err)
	return err
}

// Unwrap returns the underlying store.
func (s *InstrumentedStorage) Unwrap() storage.Storage {
	return s.inner
}

// RecordTaskCounts snapshots task totals into the td.task.count gauge,
// one series per status, category and priority.
func RecordTaskCounts(ctx context.Context, stats types.Stats) {
	if !Enabled() {
		return
	}
	recordTaskCounts(ctx, Meter(""), stats)
}

func recordTaskCounts(ctx context.Context, m metric.Meter, stats types.Stats) {
	gauge, err := m.Int64Gauge("td.task.count",
		metric.WithDescription("Current number of tasks by status, category and priority"),
	)
	if err != nil {
		return
	}
	gauge.Record(ctx, int64(stats.Active), metric.WithAttributes(attribute.String("td.task.status", "active")))
	gauge.Record(ctx, int64(stats.Completed), metric.WithAttributes(attribute.String("td.task.status", "completed")))
	gauge.Record(ctx, int64(stats.Overdue), metric.WithAttributes(attribute.String("td.task.status", "overdue")))
	for c, n := range stats.ByCategory {
		gauge.Record(ctx, int64(n), metric.WithAttributes(attribute.String("td.task.category", string(c))))
	}
	for p, n := range stats.ByPriority {
		gauge.Record(ctx, int64(n), metric.WithAttributes(attribute.String("td.task.priority", string(p))))
	}
}
