package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prehire/interview-api/internal/model"
	"github.com/rs/zerolog/log"
)

// NoAnswerSentinel stands in for an answer when the timer expires with an
// empty input. It is distinguishable from genuine candidate input, so a
// timed-out question can be told apart from an answered one later.
const NoAnswerSentinel = "No answer provided (time ran out)"

const autosaveInterval = 5 * time.Second

// Phase is the externally visible lifecycle of an engine.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseWelcomeBack Phase = "welcome_back"
	PhaseInProgress  Phase = "in_progress"
	PhaseCompleted   Phase = "completed"
)

var (
	ErrNotInProgress    = errors.New("interview is not in progress")
	ErrAlreadyStarted   = errors.New("interview already in progress")
	ErrAlreadyCompleted = errors.New("interview already completed")
	ErrEmptyAnswer      = errors.New("answer must not be empty")
	ErrDecisionPending  = errors.New("a restored session is awaiting resume or restart")
	ErrNoPendingSession = errors.New("no restored session to resume")
)

// FinalizeFunc turns a completed session into its terminal result. It must
// always return a result, degraded or not; the engine relays it to the
// caller exactly once.
type FinalizeFunc func(ctx context.Context, sess *model.InterviewSession) *model.InterviewResult

// Outcome is what one submission produced. Result is non-nil only when the
// submission completed the interview.
type Outcome struct {
	Completed bool
	Result    *model.InterviewResult
}

// Engine runs one candidate's interview: question sequencing, the per
// question countdown, answer capture with auto-submit on timeout, snapshot
// persistence, the fullscreen integrity latch, and the hand-off to
// finalization. All mutation funnels through a single mutex, so a timer
// expiry racing a manual submit can never record two answers for one
// question.
type Engine struct {
	mu       sync.Mutex
	sess     *model.InterviewSession
	store    *Store
	timer    *Timer
	phase    Phase
	finalize FinalizeFunc
	result   *model.InterviewResult

	now         func() time.Time
	autoTick    bool
	cancelLoops context.CancelFunc
}

// NewEngine builds an engine for the candidate and restores any pending
// snapshot. A restored, unfinished session leaves the engine in
// PhaseWelcomeBack: the candidate must explicitly Resume or Restart.
func NewEngine(candidate *model.Candidate, store *Store, finalize FinalizeFunc) *Engine {
	e := &Engine{
		sess:     freshSession(candidate),
		store:    store,
		timer:    NewTimer(),
		phase:    PhaseIdle,
		finalize: finalize,
		now:      time.Now,
		autoTick: true,
	}
	e.restore()
	return e
}

func freshSession(c *model.Candidate) *model.InterviewSession {
	return &model.InterviewSession{
		CandidateID:   c.ID,
		CandidateName: c.Name,
		ResumeContent: c.ResumeContent,
		Questions:     model.FullStackQuestions(),
	}
}

func (e *Engine) restore() {
	snap, err := e.store.Load(e.sess.CandidateID)
	if err != nil {
		log.Error().Err(err).Str("candidateID", e.sess.CandidateID).Msg("Failed to load session snapshot")
		return
	}
	if snap == nil {
		return
	}
	if e.now().Sub(snap.LastActiveAt) > MaxSessionAge {
		log.Info().Str("candidateID", snap.CandidateID).Msg("Session snapshot expired, discarding")
		e.clearSnapshot()
		return
	}
	// A finished interview is never resurrected into an active one.
	if snap.Completed || !snap.Started {
		e.clearSnapshot()
		return
	}

	e.sess = snap
	e.phase = PhaseWelcomeBack
	log.Info().
		Str("candidateID", snap.CandidateID).
		Int("questionIndex", snap.CurrentQuestionIndex).
		Int("answers", len(snap.Answers)).
		Msg("Restored interview session, awaiting resume or restart")
}

// Start begins a fresh interview at question 0.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseInProgress:
		return ErrAlreadyStarted
	case PhaseCompleted:
		return ErrAlreadyCompleted
	case PhaseWelcomeBack:
		return ErrDecisionPending
	}

	e.sess.Started = true
	e.sess.StartedAt = e.now()
	e.startQuestionLocked(0)
	e.phase = PhaseInProgress
	e.saveLocked()
	e.startLoopsLocked()
	return nil
}

// Resume continues a restored session from where it left off, with the
// remaining time and in-progress answer intact.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseWelcomeBack {
		return ErrNoPendingSession
	}
	e.phase = PhaseInProgress
	e.timer.Start(e.sess.TimeLeft)
	e.saveLocked()
	e.startLoopsLocked()
	return nil
}

// Restart discards any stored snapshot and resets every field to its
// initial value, including the integrity latch.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLoopsLocked()
	e.timer.Stop()
	e.clearSnapshot()

	candidate := model.Candidate{
		ID:            e.sess.CandidateID,
		Name:          e.sess.CandidateName,
		ResumeContent: e.sess.ResumeContent,
	}
	e.sess = freshSession(&candidate)
	e.result = nil
	e.phase = PhaseIdle
}

// SubmitAnswer records a manual submission. Empty (after trimming) text is
// rejected here, in the engine itself, so every caller gets the same rule;
// only the timeout path may fall back to the sentinel.
func (e *Engine) SubmitAnswer(ctx context.Context, text string) (*Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseInProgress {
		return nil, ErrNotInProgress
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyAnswer
	}
	return e.submitLocked(ctx, text, false), nil
}

// SetDraft updates the in-progress answer buffer so it survives a reload.
func (e *Engine) SetDraft(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	e.sess.CurrentAnswer = text
	e.saveLocked()
	return nil
}

// HandleTick consumes one countdown second. When the countdown drains it
// auto-submits the in-progress answer; the timer's armed flag guarantees
// this happens at most once per question even if a stale tick arrives
// after a manual submit already advanced the sequencer.
func (e *Engine) HandleTick(ctx context.Context) *Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseInProgress {
		return nil
	}
	expired := e.timer.Tick()
	e.sess.TimeLeft = e.timer.Remaining()
	if expired {
		return e.submitLocked(ctx, e.sess.CurrentAnswer, true)
	}
	e.saveLocked()
	return nil
}

func (e *Engine) submitLocked(ctx context.Context, text string, auto bool) *Outcome {
	question := e.sess.Questions[e.sess.CurrentQuestionIndex]

	answer := text
	if auto && strings.TrimSpace(answer) == "" {
		answer = NoAnswerSentinel
	}
	elapsed := int(e.now().Sub(e.sess.QuestionStartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	e.sess.Answers = append(e.sess.Answers, model.AnsweredQuestion{
		Question:  question.Prompt,
		Answer:    answer,
		TimeSpent: elapsed,
	})

	// Tear the timer down before advancing so a stale tick cannot produce a
	// duplicate submission.
	e.timer.Stop()

	if e.sess.CurrentQuestionIndex == len(e.sess.Questions)-1 {
		return e.finalizeLocked(ctx)
	}

	e.startQuestionLocked(e.sess.CurrentQuestionIndex + 1)
	e.saveLocked()
	return &Outcome{Completed: false}
}

func (e *Engine) startQuestionLocked(index int) {
	e.sess.CurrentQuestionIndex = index
	question := e.sess.Questions[index]
	e.sess.TimeLeft = question.TimeLimit
	e.sess.CurrentAnswer = ""
	e.sess.QuestionStartedAt = e.now()
	e.timer.Start(question.TimeLimit)
}

func (e *Engine) finalizeLocked(ctx context.Context) *Outcome {
	e.sess.Completed = true
	e.phase = PhaseCompleted
	e.stopLoopsLocked()

	// Completion stops persistence and clears the snapshot unconditionally;
	// a finished interview must not be replayable.
	e.clearSnapshot()

	result := e.finalize(ctx, e.sess)
	e.result = result
	return &Outcome{Completed: true, Result: result}
}

// RecordFullscreenExit sets the one-way integrity latch. It is cleared only
// by Restart.
func (e *Engine) RecordFullscreenExit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.sess.Active() {
		return
	}
	e.sess.ExitedFullscreen = true
	e.saveLocked()
}

// SaveNow snapshots the session if it is active. Used by the heartbeat, by
// the page-unload beacon, and on shutdown.
func (e *Engine) SaveNow() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveLocked()
}

// Close stops the engine's background loops after a best-effort save.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveLocked()
	e.stopLoopsLocked()
}

// Phase returns the engine's lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Snapshot returns a copy of the session state for presentation.
func (e *Engine) Snapshot() model.InterviewSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.sess
}

// Result returns the terminal result once the interview has completed.
func (e *Engine) Result() *model.InterviewResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

func (e *Engine) saveLocked() {
	if !e.sess.Active() {
		return
	}
	if err := e.store.Save(e.sess); err != nil {
		log.Error().Err(err).Str("candidateID", e.sess.CandidateID).Msg("Failed to save session snapshot")
	}
}

func (e *Engine) clearSnapshot() {
	if err := e.store.Clear(e.sess.CandidateID); err != nil {
		log.Error().Err(err).Str("candidateID", e.sess.CandidateID).Msg("Failed to clear session snapshot")
	}
}

func (e *Engine) startLoopsLocked() {
	if !e.autoTick || e.cancelLoops != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancelLoops = cancel
	go e.run(ctx)
}

func (e *Engine) stopLoopsLocked() {
	if e.cancelLoops != nil {
		e.cancelLoops()
		e.cancelLoops = nil
	}
}

func (e *Engine) run(ctx context.Context) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	autosave := time.NewTicker(autosaveInterval)
	defer autosave.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			e.HandleTick(context.Background())
		case <-autosave.C:
			e.SaveNow()
		}
	}
}
