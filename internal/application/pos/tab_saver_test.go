package pos

import (
	"context"
	"testing"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tabWithNotes(id uuid.UUID, notes string) *entity.OpenTab {
	return &entity.OpenTab{ID: id, TableLabel: "1", Notes: notes}
}

func TestTabSaverLatestQueuedWriteWins(t *testing.T) {
	repo := newMemTabs()
	repo.gate = make(chan struct{})
	repo.started = make(chan struct{}, 10)
	saver := NewTabSaver(repo, nil)
	id := uuid.New()

	saver.Enqueue(tabWithNotes(id, "v1"))
	<-repo.started // v1 is in flight

	saver.Enqueue(tabWithNotes(id, "v2"))
	saver.Enqueue(tabWithNotes(id, "v3"))

	repo.gate <- struct{}{} // finish v1
	<-repo.started          // v3 begins
	repo.gate <- struct{}{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, saver.Flush(ctx, id))

	assert.Equal(t, []string{"v1", "v3"}, repo.upsertNotes())
	stored, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v3", stored.Notes)
}

func TestTabSaverDiscardDropsQueuedWrites(t *testing.T) {
	repo := newMemTabs()
	repo.gate = make(chan struct{})
	repo.started = make(chan struct{}, 10)
	saver := NewTabSaver(repo, nil)
	id := uuid.New()

	saver.Enqueue(tabWithNotes(id, "v1"))
	<-repo.started
	saver.Enqueue(tabWithNotes(id, "v2"))

	done := make(chan error, 1)
	go func() { done <- saver.Discard(context.Background(), id) }()

	select {
	case <-done:
		t.Fatal("discard returned while a write was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	repo.gate <- struct{}{}
	require.NoError(t, <-done)
	require.NoError(t, repo.Close(context.Background(), id))
	saver.Wait()

	assert.Equal(t, []string{"v1"}, repo.upsertNotes())
	assert.False(t, repo.has(id))
}

func TestTabSaverFlushHonoursContext(t *testing.T) {
	repo := newMemTabs()
	repo.gate = make(chan struct{})
	saver := NewTabSaver(repo, nil)
	id := uuid.New()

	saver.Enqueue(tabWithNotes(id, "v1"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, saver.Flush(ctx, id), context.DeadlineExceeded)

	repo.gate <- struct{}{}
	saver.Wait()
}

func TestTabSaverIndependentTabs(t *testing.T) {
	repo := newMemTabs()
	saver := NewTabSaver(repo, nil)
	a, b := uuid.New(), uuid.New()

	saver.Enqueue(tabWithNotes(a, "a"))
	saver.Enqueue(tabWithNotes(b, "b"))
	saver.Wait()

	assert.True(t, repo.has(a))
	assert.True(t, repo.has(b))
	assert.NoError(t, saver.Flush(context.Background(), a))
}

func TestTabSaverSnapshotsInput(t *testing.T) {
	repo := newMemTabs()
	repo.gate = make(chan struct{})
	saver := NewTabSaver(repo, nil)
	id := uuid.New()

	tab := tabWithNotes(id, "before")
	tab.Items = []entity.LineItem{{ProductID: uuid.New(), Quantity: 1}}
	saver.Enqueue(tab)
	tab.Notes = "after"
	tab.Items[0].Quantity = 9

	repo.gate <- struct{}{}
	saver.Wait()

	stored, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "before", stored.Notes)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}
