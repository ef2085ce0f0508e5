package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prehire/interview-api/internal/model"
	"github.com/prehire/interview-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testCandidate() *model.Candidate {
	return &model.Candidate{
		ID:            "cand-1",
		Name:          "Ada Lovelace",
		ResumeContent: "10 years of full stack experience",
	}
}

// newTestEngine builds an engine with background loops disabled so tests
// drive ticks and time explicitly.
func newTestEngine(t *testing.T, store *Store, finalize FinalizeFunc) (*Engine, *fakeClock) {
	t.Helper()
	if finalize == nil {
		finalize = func(ctx context.Context, sess *model.InterviewSession) *model.InterviewResult {
			return &model.InterviewResult{Recommendation: "No Hire"}
		}
	}
	clock := &fakeClock{t: time.Now()}
	e := NewEngine(testCandidate(), store, finalize)
	e.autoTick = false
	e.now = clock.Now
	store.now = clock.Now
	return e, clock
}

func TestStartActivatesFirstQuestion(t *testing.T) {
	e, _ := newTestEngine(t, newTestStore(t), nil)

	require.NoError(t, e.Start())

	snap := e.Snapshot()
	assert.Equal(t, PhaseInProgress, e.Phase())
	assert.True(t, snap.Started)
	assert.Equal(t, 0, snap.CurrentQuestionIndex)
	assert.Equal(t, 20, snap.TimeLeft)
	assert.Empty(t, snap.Answers)
}

func TestStartErrors(t *testing.T) {
	e, _ := newTestEngine(t, newTestStore(t), nil)

	_, err := e.SubmitAnswer(context.Background(), "early")
	assert.ErrorIs(t, err, ErrNotInProgress)

	require.NoError(t, e.Start())
	assert.ErrorIs(t, e.Start(), ErrAlreadyStarted)
	assert.ErrorIs(t, e.Resume(), ErrNoPendingSession)
}

func TestManualSubmitAdvancesSequencer(t *testing.T) {
	e, clock := newTestEngine(t, newTestStore(t), nil)
	require.NoError(t, e.Start())

	clock.Advance(5 * time.Second)
	outcome, err := e.SubmitAnswer(context.Background(), "JavaScript XML")
	require.NoError(t, err)
	assert.False(t, outcome.Completed)

	snap := e.Snapshot()
	require.Len(t, snap.Answers, 1)
	assert.Equal(t, "What does JSX stand for?", snap.Answers[0].Question)
	assert.Equal(t, "JavaScript XML", snap.Answers[0].Answer)
	assert.Equal(t, 5, snap.Answers[0].TimeSpent)
	assert.Equal(t, 1, snap.CurrentQuestionIndex)
	assert.Equal(t, 20, snap.TimeLeft, "timer resets to the new question's limit")
	assert.Empty(t, snap.CurrentAnswer, "answer buffer clears on advance")
}

func TestManualSubmitRejectsEmptyText(t *testing.T) {
	e, _ := newTestEngine(t, newTestStore(t), nil)
	require.NoError(t, e.Start())

	_, err := e.SubmitAnswer(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	_, err = e.SubmitAnswer(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	snap := e.Snapshot()
	assert.Empty(t, snap.Answers, "rejected submissions record nothing")
	assert.Equal(t, 0, snap.CurrentQuestionIndex)
}

func TestTimeSpentRoundsDown(t *testing.T) {
	e, clock := newTestEngine(t, newTestStore(t), nil)
	require.NoError(t, e.Start())

	clock.Advance(5*time.Second + 900*time.Millisecond)
	_, err := e.SubmitAnswer(context.Background(), "JavaScript XML")
	require.NoError(t, err)

	assert.Equal(t, 5, e.Snapshot().Answers[0].TimeSpent)
}

func TestTimeoutAutoSubmitsSentinel(t *testing.T) {
	e, _ := newTestEngine(t, newTestStore(t), nil)
	require.NoError(t, e.Start())

	// Drain question 0's 20 second countdown with an empty answer buffer.
	for i := 0; i < 20; i++ {
		e.HandleTick(context.Background())
	}

	snap := e.Snapshot()
	require.Len(t, snap.Answers, 1)
	assert.Equal(t, NoAnswerSentinel, snap.Answers[0].Answer)
	assert.Equal(t, 1, snap.CurrentQuestionIndex)
}

func TestTimeoutKeepsTypedDraft(t *testing.T) {
	e, _ := newTestEngine(t, newTestStore(t), nil)
	require.NoError(t, e.Start())
	require.NoError(t, e.SetDraft("partial answ"))

	for i := 0; i < 20; i++ {
		e.HandleTick(context.Background())
	}

	snap := e.Snapshot()
	require.Len(t, snap.Answers, 1)
	assert.Equal(t, "partial answ", snap.Answers[0].Answer, "auto-submit keeps non-empty draft, no sentinel")
}

func TestExactlyOneSubmissionPerQuestion(t *testing.T) {
	t.Run("stale tick after manual submit", func(t *testing.T) {
		e, _ := newTestEngine(t, newTestStore(t), nil)
		require.NoError(t, e.Start())

		// Run the timer almost dry, then beat it with a manual submit.
		for i := 0; i < 19; i++ {
			e.HandleTick(context.Background())
		}
		_, err := e.SubmitAnswer(context.Background(), "JavaScript XML")
		require.NoError(t, err)

		// The tick that would have expired question 0 lands on question 1's
		// fresh timer instead.
		e.HandleTick(context.Background())

		snap := e.Snapshot()
		assert.Len(t, snap.Answers, 1)
		assert.Equal(t, 1, snap.CurrentQuestionIndex)
		assert.Equal(t, 19, snap.TimeLeft)
	})

	t.Run("tick after expiry does not re-fire", func(t *testing.T) {
		e, _ := newTestEngine(t, newTestStore(t), nil)
		require.NoError(t, e.Start())

		for i := 0; i < 25; i++ {
			e.HandleTick(context.Background())
		}

		snap := e.Snapshot()
		assert.Len(t, snap.Answers, 1, "question 0 expired exactly once")
		assert.Equal(t, 1, snap.CurrentQuestionIndex)
	})
}

func TestSequencingInvariant(t *testing.T) {
	finalized := 0
	finalize := func(ctx context.Context, sess *model.InterviewSession) *model.InterviewResult {
		finalized++
		return &model.InterviewResult{Score: 50, Recommendation: "Maybe", Answers: sess.Answers}
	}
	e, _ := newTestEngine(t, newTestStore(t), finalize)
	require.NoError(t, e.Start())

	for k := 1; k <= 6; k++ {
		outcome, err := e.SubmitAnswer(context.Background(), fmt.Sprintf("answer %d", k))
		require.NoError(t, err)

		snap := e.Snapshot()
		assert.Len(t, snap.Answers, k)
		if k < 6 {
			assert.False(t, outcome.Completed)
			assert.Equal(t, k, snap.CurrentQuestionIndex)
		} else {
			assert.True(t, outcome.Completed)
			assert.True(t, snap.Completed)
			require.NotNil(t, outcome.Result)
		}
	}
	assert.Equal(t, 1, finalized, "finalization runs exactly once")

	// No further ticks are processed after completion.
	assert.Nil(t, e.HandleTick(context.Background()))
	assert.Len(t, e.Snapshot().Answers, 6)
	assert.Equal(t, PhaseCompleted, e.Phase())
}

func TestCompletionClearsSnapshot(t *testing.T) {
	store := newTestStore(t)
	e, _ := newTestEngine(t, store, nil)
	require.NoError(t, e.Start())

	for k := 0; k < 6; k++ {
		_, err := e.SubmitAnswer(context.Background(), "answer")
		require.NoError(t, err)
	}

	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	assert.Nil(t, loaded, "a finished interview must not be replayable")
}

func TestRestoreOffersWelcomeBack(t *testing.T) {
	store := newTestStore(t)
	e, clock := newTestEngine(t, store, nil)
	require.NoError(t, e.Start())

	clock.Advance(8 * time.Second)
	_, err := e.SubmitAnswer(context.Background(), "JavaScript XML")
	require.NoError(t, err)
	require.NoError(t, e.SetDraft("yarn has a lockfi"))
	e.HandleTick(context.Background())
	e.HandleTick(context.Background())

	// Fresh engine for the same candidate, as if the page reloaded.
	restored := NewEngine(testCandidate(), store, nil)
	restored.autoTick = false
	require.Equal(t, PhaseWelcomeBack, restored.Phase())

	snap := restored.Snapshot()
	assert.Equal(t, 1, snap.CurrentQuestionIndex)
	assert.Len(t, snap.Answers, 1)
	assert.Equal(t, "yarn has a lockfi", snap.CurrentAnswer)
	assert.Equal(t, 18, snap.TimeLeft)

	// The candidate must explicitly resume; starting over directly is
	// refused while the decision is pending.
	assert.ErrorIs(t, restored.Start(), ErrDecisionPending)
	require.NoError(t, restored.Resume())
	assert.Equal(t, PhaseInProgress, restored.Phase())

	restored.HandleTick(context.Background())
	assert.Equal(t, 17, restored.Snapshot().TimeLeft, "countdown continues from the restored value")
}

func TestExpiredSnapshotIsDiscarded(t *testing.T) {
	store := newTestStore(t)
	e, _ := newTestEngine(t, store, nil)
	require.NoError(t, e.Start())
	_, err := e.SubmitAnswer(context.Background(), "JavaScript XML")
	require.NoError(t, err)

	// The snapshot was last active just over 24 hours ago.
	stale := time.Now().Add(-MaxSessionAge - time.Minute)
	store.now = func() time.Time { return stale }
	e.SaveNow()
	store.now = time.Now

	restored := NewEngine(testCandidate(), store, nil)
	restored.autoTick = false

	assert.Equal(t, PhaseIdle, restored.Phase())
	snap := restored.Snapshot()
	assert.False(t, snap.Started)
	assert.Empty(t, snap.Answers)

	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	assert.Nil(t, loaded, "expired snapshot is cleared")
}

func TestCompletedSnapshotIsNeverRestored(t *testing.T) {
	store := newTestStore(t)

	sess := sampleSession()
	sess.Completed = true
	require.NoError(t, store.Save(sess))

	restored := NewEngine(testCandidate(), store, nil)
	restored.autoTick = false

	assert.Equal(t, PhaseIdle, restored.Phase())
	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRestartResetsEverything(t *testing.T) {
	store := newTestStore(t)
	e, _ := newTestEngine(t, store, nil)
	require.NoError(t, e.Start())
	_, err := e.SubmitAnswer(context.Background(), "JavaScript XML")
	require.NoError(t, err)
	e.RecordFullscreenExit()

	e.Restart()

	assert.Equal(t, PhaseIdle, e.Phase())
	snap := e.Snapshot()
	assert.False(t, snap.Started)
	assert.False(t, snap.ExitedFullscreen, "restart clears the integrity latch")
	assert.Empty(t, snap.Answers)
	assert.Equal(t, 0, snap.CurrentQuestionIndex)

	loaded, err := store.Load("cand-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// A fresh start works after restart.
	require.NoError(t, e.Start())
	assert.Equal(t, PhaseInProgress, e.Phase())
}

func TestFullscreenLatchSurvivesRestore(t *testing.T) {
	store := newTestStore(t)
	e, _ := newTestEngine(t, store, nil)

	// The latch only engages while the session is active.
	e.RecordFullscreenExit()
	assert.False(t, e.Snapshot().ExitedFullscreen)

	require.NoError(t, e.Start())
	e.RecordFullscreenExit()
	assert.True(t, e.Snapshot().ExitedFullscreen)

	restored := NewEngine(testCandidate(), store, nil)
	restored.autoTick = false
	require.Equal(t, PhaseWelcomeBack, restored.Phase())
	assert.True(t, restored.Snapshot().ExitedFullscreen)
}

type fakeCandidateRepo struct {
	attachCalls int
	lastResult  *model.InterviewResult
	attachErr   error
}

func (r *fakeCandidateRepo) Create(candidate *model.Candidate) error { return nil }

func (r *fakeCandidateRepo) FindAll() ([]model.Candidate, error) { return nil, nil }

func (r *fakeCandidateRepo) FindByID(id string) (*model.Candidate, error) {
	return &model.Candidate{ID: id}, nil
}

func (r *fakeCandidateRepo) AttachResult(candidateID string, result *model.InterviewResult) (*model.Candidate, error) {
	r.attachCalls++
	r.lastResult = result
	if r.attachErr != nil {
		return nil, r.attachErr
	}
	return &model.Candidate{ID: candidateID, Result: result}, nil
}

type fixedScorer struct {
	response string
}

func (s *fixedScorer) Score(ctx context.Context, prompt string) (string, error) {
	return s.response, nil
}

// TestFullInterviewScenario runs the whole pipeline end to end: six timed
// submissions through the engine, evaluation through the real evaluation
// service against a canned scoring response, and persistence through a
// fake candidate repository.
func TestFullInterviewScenario(t *testing.T) {
	scorer := &fixedScorer{response: `{
		"overallScore": 82,
		"individualScores": [
			{"questionIndex": 0, "score": 90, "feedback": "solid"},
			{"questionIndex": 1, "score": 85, "feedback": "solid"},
			{"questionIndex": 2, "score": 80, "feedback": "good"},
			{"questionIndex": 3, "score": 78, "feedback": "good"},
			{"questionIndex": 4, "score": 82, "feedback": "good"},
			{"questionIndex": 5, "score": 77, "feedback": "fair"}
		],
		"strengths": ["x"],
		"improvements": ["y"],
		"recommendation": "Hire",
		"summary": "s"
	}`}
	repo := &fakeCandidateRepo{}
	interviewSvc := service.NewInterviewService(service.NewEvaluationService(scorer), repo)

	store := newTestStore(t)
	e, clock := newTestEngine(t, store, interviewSvc.Finalize)
	require.NoError(t, e.Start())

	answers := []string{"JSX", "npm vs yarn", "token based auth", "hooks manage state", "websockets and redis", "memoize and lazy load"}
	times := []int{5, 10, 30, 45, 90, 110}

	var outcome *Outcome
	for i, answer := range answers {
		clock.Advance(time.Duration(times[i]) * time.Second)
		var err error
		outcome, err = e.SubmitAnswer(context.Background(), answer)
		require.NoError(t, err)
	}

	require.True(t, outcome.Completed)
	result := outcome.Result
	require.NotNil(t, result)
	assert.Equal(t, float64(82), result.Score)
	assert.Equal(t, "Hire", result.Recommendation)
	assert.Equal(t, "s", result.Summary)
	require.Len(t, result.Answers, 6)
	for i, answered := range result.Answers {
		assert.Equal(t, answers[i], answered.Answer)
		assert.Equal(t, times[i], answered.TimeSpent)
	}

	assert.Equal(t, 1, repo.attachCalls, "result persisted exactly once")
	assert.Same(t, result, repo.lastResult)
	assert.Same(t, result, e.Result())
}
