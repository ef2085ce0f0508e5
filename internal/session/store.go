package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prehire/interview-api/internal/model"
	"github.com/rs/zerolog/log"
)

// MaxSessionAge is the expiry window for stored snapshots. A snapshot whose
// LastActiveAt is older than this is discarded on restore.
const MaxSessionAge = 24 * time.Hour

const appStateFile = "app_state.json"

// AppState is the coarse navigation state kept alongside the session
// snapshots, under its own key.
type AppState struct {
	LastCandidateID string `json:"last_candidate_id"`
	Stage           string `json:"stage"` // "registration", "interview", "results"
}

// Store snapshots interview sessions as JSON files, one per candidate.
// Saves overwrite the whole snapshot; there is no merge logic because every
// save derives from the single authoritative in-memory session.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) sessionPath(candidateID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("interview_session_%s.json", candidateID))
}

// Save overwrites the candidate's snapshot and stamps LastActiveAt.
func (s *Store) Save(sess *model.InterviewSession) error {
	sess.LastActiveAt = s.now()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize session for candidate %s: %w", sess.CandidateID, err)
	}
	if err := os.WriteFile(s.sessionPath(sess.CandidateID), data, 0o644); err != nil {
		return fmt.Errorf("write session snapshot for candidate %s: %w", sess.CandidateID, err)
	}
	return nil
}

// Load reads the candidate's snapshot. A missing snapshot is not an error;
// it returns (nil, nil). A corrupt snapshot is cleared and treated as
// missing, matching the restore-or-start-fresh contract.
func (s *Store) Load(candidateID string) (*model.InterviewSession, error) {
	data, err := os.ReadFile(s.sessionPath(candidateID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session snapshot for candidate %s: %w", candidateID, err)
	}

	var sess model.InterviewSession
	if err := json.Unmarshal(data, &sess); err != nil {
		log.Warn().Err(err).Str("candidateID", candidateID).Msg("Corrupt session snapshot, clearing")
		if clearErr := s.Clear(candidateID); clearErr != nil {
			log.Error().Err(clearErr).Str("candidateID", candidateID).Msg("Failed to clear corrupt session snapshot")
		}
		return nil, nil
	}
	return &sess, nil
}

// Clear removes the candidate's snapshot. Clearing an absent snapshot is a
// no-op.
func (s *Store) Clear(candidateID string) error {
	if err := os.Remove(s.sessionPath(candidateID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session snapshot for candidate %s: %w", candidateID, err)
	}
	return nil
}

// SaveAppState overwrites the app-navigation state key.
func (s *Store) SaveAppState(st *AppState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize app state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, appStateFile), data, 0o644); err != nil {
		return fmt.Errorf("write app state: %w", err)
	}
	return nil
}

// LoadAppState reads the app-navigation state, or (nil, nil) when absent.
func (s *Store) LoadAppState() (*AppState, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, appStateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read app state: %w", err)
	}
	var st AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode app state: %w", err)
	}
	return &st, nil
}
