package pos

import (
	"context"
	"sync"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTabWriteTimeout = 5 * time.Second

// TabSaver persists open tabs in the background.
//
// Writes for one tab run one at a time. A snapshot queued while another write
// for the same tab is in flight replaces any snapshot queued before it, so the
// store always ends with the newest state.
type TabSaver struct {
	repo    repository.OpenTabRepository
	log     *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	queues map[uuid.UUID]*tabQueue
	wg     sync.WaitGroup
}

type tabQueue struct {
	pending *entity.OpenTab
	idle    chan struct{} // closed once the queue has drained
}

// NewTabSaver creates a saver writing through repo
func NewTabSaver(repo repository.OpenTabRepository, log *zap.Logger) *TabSaver {
	if log == nil {
		log = zap.NewNop()
	}
	return &TabSaver{
		repo:    repo,
		log:     log,
		timeout: defaultTabWriteTimeout,
		queues:  make(map[uuid.UUID]*tabQueue),
	}
}

// Enqueue schedules a snapshot of tab for writing
func (s *TabSaver) Enqueue(tab *entity.OpenTab) {
	snapshot := tab.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.queues[snapshot.ID]; ok {
		q.pending = snapshot
		return
	}

	q := &tabQueue{pending: snapshot, idle: make(chan struct{})}
	s.queues[snapshot.ID] = q
	s.wg.Add(1)
	go s.drain(snapshot.ID, q)
}

func (s *TabSaver) drain(id uuid.UUID, q *tabQueue) {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		tab := q.pending
		if tab == nil {
			delete(s.queues, id)
			close(q.idle)
			s.mu.Unlock()
			return
		}
		q.pending = nil
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.repo.Upsert(ctx, tab); err != nil {
			s.log.Warn("open tab autosave failed",
				zap.String("tab_id", id.String()),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Flush blocks until every queued write for the tab has been attempted
func (s *TabSaver) Flush(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	q, ok := s.queues[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return wait(ctx, q.idle)
}

// Discard drops queued writes for the tab and waits for the one in flight, if any.
// After it returns no background write can recreate the tab.
func (s *TabSaver) Discard(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	q, ok := s.queues[id]
	if ok {
		q.pending = nil
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return wait(ctx, q.idle)
}

// Wait blocks until every background write has finished
func (s *TabSaver) Wait() {
	s.wg.Wait()
}

func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
