package model

import "time"

// AnsweredQuestion is one submitted answer. The question text is a
// denormalized copy so the record stands on its own. Records are created
// once, at submit-or-timeout, and never mutated.
type AnsweredQuestion struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	TimeSpent int    `json:"time_spent"` // seconds
}

// InterviewSession is the resumable unit of one candidate's interview
// attempt. It is snapshotted to durable storage on every mutation while
// started and not completed.
//
// Invariants while not completed: 0 <= CurrentQuestionIndex < len(Questions)
// and len(Answers) == CurrentQuestionIndex before the current question's
// submission.
type InterviewSession struct {
	CandidateID          string             `json:"candidate_id"`
	CandidateName        string             `json:"candidate_name"`
	ResumeContent        string             `json:"resume_content"`
	CurrentQuestionIndex int                `json:"current_question_index"`
	Questions            []Question         `json:"questions"`
	CurrentAnswer        string             `json:"current_answer"`
	TimeLeft             int                `json:"time_left"` // seconds
	Answers              []AnsweredQuestion `json:"answers"`
	Started              bool               `json:"started"`
	Completed            bool               `json:"completed"`
	ExitedFullscreen     bool               `json:"exited_fullscreen"`
	StartedAt            time.Time          `json:"started_at"`
	LastActiveAt         time.Time          `json:"last_active_at"`
	QuestionStartedAt    time.Time          `json:"question_started_at"`
}

// CurrentQuestion returns the active question, or nil when the session has
// not started or has completed.
func (s *InterviewSession) CurrentQuestion() *Question {
	if !s.Started || s.Completed {
		return nil
	}
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}

// Active reports whether the session is in progress.
func (s *InterviewSession) Active() bool {
	return s.Started && !s.Completed
}
