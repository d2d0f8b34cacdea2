package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func TestAppendAndRecent(t *testing.T) {
	clock := newClock()
	h := New(WithClock(clock.Now))

	firstID, err := h.Append(Entry{OperationID: "play", Args: []Binding{{Name: "Song", Kind: "song", Value: "imagine-1"}}})
	require.NoError(t, err)
	clock.Advance(time.Second)
	secondID, err := h.Append(Entry{OperationID: "stop"})
	require.NoError(t, err)

	recent := h.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, secondID, recent[0].ID)
	assert.Equal(t, firstID, recent[1].ID)
	assert.Equal(t, clock.Now().Add(-time.Second), recent[1].CreatedAt)

	snapshot := h.Snapshot()
	assert.Equal(t, firstID, snapshot[0].ID)
}

func TestSnapshotReturnsCopies(t *testing.T) {
	h := New(WithClock(newClock().Now))
	_, err := h.Append(Entry{OperationID: "play", Args: []Binding{{Name: "Song", Kind: "song", Value: "a"}}})
	require.NoError(t, err)

	snapshot := h.Snapshot()
	snapshot[0].Args[0].Value = "mutated"

	assert.Equal(t, "a", h.Snapshot()[0].Args[0].Value)
}

func TestResultsAndSealing(t *testing.T) {
	h := New(WithClock(newClock().Now))
	id, err := h.Append(Entry{OperationID: "create_event"})
	require.NoError(t, err)

	require.NoError(t, h.AddResult(id, Binding{Name: "Event", Kind: "event", Value: "ev-1"}))
	require.NoError(t, h.SetResponse(id, "Event created"))

	assert.ErrorIs(t, h.AddResult(id, Binding{Name: "Other"}), ErrEntrySealed)
	assert.ErrorIs(t, h.SetResponse(id, "again"), ErrEntrySealed)
	assert.ErrorIs(t, h.AddResult("missing", Binding{}), ErrEntryNotFound)

	entry := h.Recent()[0]
	assert.Equal(t, "Event created", entry.Response)
	require.Len(t, entry.Results, 1)
	assert.Equal(t, "ev-1", entry.Results[0].Value)
}

func TestPruneRemovesExpiredEntries(t *testing.T) {
	clock := newClock()
	h := New(WithClock(clock.Now), WithRetention(10*time.Minute))

	_, err := h.Append(Entry{OperationID: "old"})
	require.NoError(t, err)
	clock.Advance(6 * time.Minute)
	_, err = h.Append(Entry{OperationID: "new"})
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	assert.Len(t, h.Recent(), 1, "expired entries are hidden before pruning")
	assert.Equal(t, 2, h.Len())

	assert.Equal(t, 1, h.Prune())
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "new", h.Recent()[0].OperationID)

	clock.Advance(time.Hour)
	assert.Equal(t, 1, h.Prune())
	assert.Empty(t, h.Recent())
}

func TestAppendPrunesExpiredEntries(t *testing.T) {
	clock := newClock()
	h := New(WithClock(clock.Now), WithRetention(time.Minute))

	_, err := h.Append(Entry{OperationID: "old"})
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = h.Append(Entry{OperationID: "new"})
	require.NoError(t, err)

	assert.Equal(t, 1, h.Len())
}

func TestConcurrentAppends(t *testing.T) {
	h := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Append(Entry{OperationID: "op"})
			assert.NoError(t, err)
			h.Recent()
			h.Prune()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, h.Len())
}

func TestRunPrunerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newClock()
	h := New(WithClock(clock.Now), WithRetention(time.Minute))
	_, err := h.Append(Entry{OperationID: "old"})
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.RunPruner(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
