package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/wayfinder/pkg/observability"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// instrumented reports every call of the wrapped store to the registered
// observability hooks and records one span per call.
type instrumented struct {
	next    Store
	backend string
}

// Instrumented wraps s so that its calls emit [observability.Store] events
// and OpenTelemetry spans tagged with backend.
func Instrumented(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (s *instrumented) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("store.backend", s.backend))
	return observability.Tracer().Start(ctx, "store."+op, trace.WithAttributes(attrs...))
}

func (s *instrumented) Save(ctx context.Context, name string, snap world.Snapshot) error {
	ctx, span := s.start(ctx, "save",
		attribute.String("map.name", name),
		attribute.Int("map.locations", len(snap.Locations)))
	defer span.End()

	begin := time.Now()
	err := s.next.Save(ctx, name, snap)
	observability.Store().OnSave(ctx, s.backend, name, len(snap.Locations), time.Since(begin), err)
	finish(span, err)
	return err
}

func (s *instrumented) Load(ctx context.Context, name string) (world.Snapshot, error) {
	ctx, span := s.start(ctx, "load", attribute.String("map.name", name))
	defer span.End()

	begin := time.Now()
	snap, err := s.next.Load(ctx, name)
	observability.Store().OnLoad(ctx, s.backend, name, time.Since(begin), err)
	if err == nil {
		span.SetAttributes(attribute.Int("map.locations", len(snap.Locations)))
	}
	finish(span, err)
	return snap, err
}

func (s *instrumented) List(ctx context.Context) ([]MapInfo, error) {
	ctx, span := s.start(ctx, "list")
	defer span.End()

	begin := time.Now()
	maps, err := s.next.List(ctx)
	observability.Store().OnList(ctx, s.backend, len(maps), time.Since(begin), err)
	finish(span, err)
	return maps, err
}

func (s *instrumented) Close() error { return s.next.Close() }

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
