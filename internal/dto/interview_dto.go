package dto

import (
	"time"

	"github.com/prehire/interview-api/internal/model"
)

// AnswerSubmitDTO is the request body for a manual answer submission.
// Auto-submissions on timeout are produced by the timer engine, never by
// this endpoint.
type AnswerSubmitDTO struct {
	Answer string `json:"answer" binding:"required"`
}

// AnswerDraftDTO carries the in-progress answer buffer; empty is allowed.
type AnswerDraftDTO struct {
	Answer string `json:"answer"`
}

// SessionStateDTO is the externally visible state of an interview session.
type SessionStateDTO struct {
	CandidateID          string       `json:"candidate_id"`
	Phase                string       `json:"phase"` // "idle", "welcome_back", "in_progress", "completed"
	CurrentQuestionIndex int          `json:"current_question_index"`
	TotalQuestions       int          `json:"total_questions"`
	CurrentQuestion      *QuestionDTO `json:"current_question,omitempty"`
	CurrentAnswer        string       `json:"current_answer"`
	TimeLeft             int          `json:"time_left"`
	AnswersCompleted     int          `json:"answers_completed"`
	ExitedFullscreen     bool         `json:"exited_fullscreen"`
	StartedAt            time.Time    `json:"started_at,omitempty"`
}

// QuestionDTO exposes a question without leaking upcoming ones.
type QuestionDTO struct {
	ID         string `json:"id"`
	Prompt     string `json:"question"`
	Difficulty string `json:"difficulty"`
	TimeLimit  int    `json:"time_limit"`
}

// SubmitOutcomeDTO is returned from an answer submission. Result is set
// only when the submission completed the interview.
type SubmitOutcomeDTO struct {
	Completed bool                   `json:"completed"`
	State     *SessionStateDTO       `json:"state,omitempty"`
	Result    *model.InterviewResult `json:"result,omitempty"`
}
