package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Candidate is one interviewee record. It owns at most one stored
// InterviewResult: attaching a new result overwrites the previous one.
type Candidate struct {
	ID            string           `gorm:"type:uuid;primarykey" json:"id"`
	Name          string           `gorm:"not null" json:"name"`
	Email         string           `gorm:"not null;index" json:"email"`
	Phone         string           `json:"phone"`
	ResumeContent string           `gorm:"type:text" json:"resume_content"`
	Result        *InterviewResult `gorm:"type:jsonb" json:"interview_result,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
