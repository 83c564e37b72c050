package messagebus

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops/go_gym_backend/internal/domain"
)

type testEvent struct{ kind string }

func (e *testEvent) Type() string           { return e.kind }
func (e *testEvent) PublishedAt() time.Time { return time.Time{} }

func TestPublishEvents(t *testing.T) {
	bus := New(slog.Default())

	var handled atomic.Int64
	bus.Register("user.created", func(event domain.Event) error {
		handled.Add(1)
		return nil
	})

	err := bus.PublishEvents(&testEvent{kind: "user.created"}, &testEvent{kind: "user.created"})
	require.NoError(t, err)
	bus.Close()

	assert.Equal(t, int64(2), handled.Load())
}

func TestPublishEvents_UnregisteredTypeIgnored(t *testing.T) {
	bus := New(slog.Default())

	var handled atomic.Int64
	bus.Register("user.created", func(event domain.Event) error {
		handled.Add(1)
		return nil
	})

	require.NoError(t, bus.PublishEvents(&testEvent{kind: "routine.created"}))
	bus.Close()

	assert.Equal(t, int64(0), handled.Load())
}

func TestPublishEvents_AllHandlersRun(t *testing.T) {
	bus := New(slog.Default())

	var first, second atomic.Bool
	bus.Register("routine.created", func(domain.Event) error {
		first.Store(true)
		return nil
	})
	bus.Register("routine.created", func(domain.Event) error {
		second.Store(true)
		return nil
	})

	require.NoError(t, bus.PublishEvents(&testEvent{kind: "routine.created"}))
	bus.Close()

	assert.True(t, first.Load())
	assert.True(t, second.Load())
}
