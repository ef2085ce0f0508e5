package session

import (
	"sync"

	"github.com/prehire/interview-api/internal/model"
	"github.com/rs/zerolog/log"
)

// Manager holds one engine per candidate. Engines are created lazily, the
// first time a candidate's interview surface is touched, restoring any
// pending snapshot at that point.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine
	store   *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{
		engines: make(map[string]*Engine),
		store:   store,
	}
}

// Engine returns the candidate's engine, creating and restoring one when
// needed.
func (m *Manager) Engine(candidate *model.Candidate, finalize FinalizeFunc) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[candidate.ID]; ok {
		return e
	}
	e := NewEngine(candidate, m.store, finalize)
	m.engines[candidate.ID] = e
	return e
}

// Peek returns an already attached engine without creating one.
func (m *Manager) Peek(candidateID string) (*Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.engines[candidateID]
	return e, ok
}

// RecordStage persists the coarse navigation state for the candidate.
func (m *Manager) RecordStage(candidateID, stage string) {
	if err := m.store.SaveAppState(&AppState{LastCandidateID: candidateID, Stage: stage}); err != nil {
		log.Warn().Err(err).Str("candidateID", candidateID).Msg("Failed to save app state")
	}
}

// Shutdown saves every active session and stops all engines. Called from
// the server's stop hook so an in-flight interview survives a restart.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.engines {
		e.Close()
		log.Info().Str("candidateID", id).Msg("Interview engine stopped")
	}
	m.engines = make(map[string]*Engine)
}
