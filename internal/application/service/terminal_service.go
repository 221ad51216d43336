package service

import (
	"context"
	"sync"

	"github.com/ezequiel-pelliza/cajaclara/internal/application/pos"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"go.uber.org/zap"
)

// TerminalService keeps one working session per terminal. Every session shares
// the catalog, the ledger and a single tab saver.
type TerminalService struct {
	mu       sync.Mutex
	sessions map[string]*pos.Session

	deps          pos.Deps
	defaultMethod enum.PaymentMethod
	log           *zap.Logger
}

// NewTerminalService creates a new terminal service
func NewTerminalService(
	catalog pos.Catalog,
	ledger repository.LedgerRepository,
	tabs repository.OpenTabRepository,
	defaultMethod enum.PaymentMethod,
	log *zap.Logger,
) *TerminalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TerminalService{
		sessions: make(map[string]*pos.Session),
		deps: pos.Deps{
			Catalog: catalog,
			Ledger:  ledger,
			Tabs:    tabs,
			Saver:   pos.NewTabSaver(tabs, log),
			Logger:  log,
		},
		defaultMethod: defaultMethod,
		log:           log,
	}
}

// Session returns the session of a terminal, creating it on first use
func (s *TerminalService) Session(terminalID string) *pos.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[terminalID]; ok {
		return sess
	}
	sess := pos.NewSession(terminalID, s.deps, pos.WithDefaultMethod(s.defaultMethod))
	s.sessions[terminalID] = sess
	s.log.Debug("terminal session started", zap.String("terminal_id", terminalID))
	return sess
}

// Active returns the number of terminals with a session
func (s *TerminalService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown waits for queued tab writes to reach storage
func (s *TerminalService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.deps.Saver.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
