package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/observability"
)

type recordingHooks struct {
	loads, saves, lists int
	lastErr             error
	lastBackend         string
}

func (h *recordingHooks) OnLoad(_ context.Context, backend, _ string, _ time.Duration, err error) {
	h.loads++
	h.lastBackend = backend
	h.lastErr = err
}

func (h *recordingHooks) OnSave(_ context.Context, backend, _ string, _ int, _ time.Duration, err error) {
	h.saves++
	h.lastBackend = backend
	h.lastErr = err
}

func (h *recordingHooks) OnList(_ context.Context, backend string, _ int, _ time.Duration, err error) {
	h.lists++
	h.lastBackend = backend
	h.lastErr = err
}

func TestInstrumented(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &recordingHooks{}
	observability.SetStoreHooks(hooks)

	ctx := context.Background()
	s := Instrumented(NewMemoryStore(), "memory")

	require.NoError(t, s.Save(ctx, "world", sampleSnapshot(t)))
	_, err := s.Load(ctx, "world")
	require.NoError(t, err)
	_, err = s.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, hooks.saves)
	assert.Equal(t, 1, hooks.loads)
	assert.Equal(t, 1, hooks.lists)
	assert.Equal(t, "memory", hooks.lastBackend)

	_, err = s.Load(ctx, "missing")
	assert.True(t, errs.Is(err, errs.ErrCodeStorageNotFound))
	assert.Equal(t, 2, hooks.loads)
	assert.Equal(t, err, hooks.lastErr)

	assert.NoError(t, s.Close())
}
