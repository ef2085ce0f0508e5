package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prehire/interview-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func sampleSession() *model.InterviewSession {
	return &model.InterviewSession{
		CandidateID:          "cand-1",
		CandidateName:        "Ada Lovelace",
		ResumeContent:        "10 years of full stack experience",
		CurrentQuestionIndex: 2,
		Questions:            model.FullStackQuestions(),
		CurrentAnswer:        "JWT with refresh tok",
		TimeLeft:             41,
		Answers: []model.AnsweredQuestion{
			{Question: "What does JSX stand for?", Answer: "JavaScript XML", TimeSpent: 5},
			{Question: "Explain the difference between npm and yarn package managers.", Answer: "Both are package managers", TimeSpent: 12},
		},
		Started:           true,
		ExitedFullscreen:  true,
		StartedAt:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		QuestionStartedAt: time.Date(2025, 3, 1, 10, 1, 30, 0, time.UTC),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	sess := sampleSession()

	require.NoError(t, store.Save(sess))

	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	// Every field except LastActiveAt survives bit for bit.
	saved := *sess
	saved.LastActiveAt = time.Time{}
	got := *loaded
	got.LastActiveAt = time.Time{}
	assert.Equal(t, saved, got)
}

func TestStoreSaveStampsLastActiveAt(t *testing.T) {
	store := newTestStore(t)
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	sess := sampleSession()
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	assert.True(t, loaded.LastActiveAt.Equal(stamp))
}

func TestStoreLoadMissingSnapshot(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load("nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreCorruptSnapshotIsCleared(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "interview_session_cand-1.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupt snapshot should be removed")
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Clear("cand-1"))

	require.NoError(t, store.Save(sampleSession()))
	require.NoError(t, store.Clear("cand-1"))
	require.NoError(t, store.Clear("cand-1"))

	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreAppStateRoundTrip(t *testing.T) {
	store := newTestStore(t)

	missing, err := store.LoadAppState()
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.SaveAppState(&AppState{LastCandidateID: "cand-1", Stage: "interview"}))

	loaded, err := store.LoadAppState()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "cand-1", loaded.LastCandidateID)
	assert.Equal(t, "interview", loaded.Stage)
}
