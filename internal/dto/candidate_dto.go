package dto

import (
	"time"

	"github.com/prehire/interview-api/internal/model"
)

// CandidateCreateDTO is the request body for registering a candidate. All
// contact fields are mandatory; the controller reports every missing field
// at once so the caller can complete the form in one pass.
type CandidateCreateDTO struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required"`
	ResumeContent string `json:"resume_content"`
}

// CandidateResponseDTO is used for listing and fetching candidates.
type CandidateResponseDTO struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	ResumeContent string                 `json:"resume_content,omitempty"`
	Result        *model.InterviewResult `json:"interview_result,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ResumeParseResponseDTO carries the best-effort fields extracted from an
// uploaded résumé. Any field may be empty; the caller must confirm or
// complete them before the interview starts.
type ResumeParseResponseDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}
