package repository

import (
	"github.com/prehire/interview-api/internal/model"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	Create(candidate *model.Candidate) error
	FindAll() ([]model.Candidate, error)
	FindByID(id string) (*model.Candidate, error)
	AttachResult(candidateID string, result *model.InterviewResult) (*model.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *model.Candidate) error {
	return r.db.Create(candidate).Error
}

func (r *candidateRepository) FindAll() ([]model.Candidate, error) {
	var candidates []model.Candidate
	if err := r.db.Order("created_at desc").Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *candidateRepository) FindByID(id string) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.First(&candidate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

// AttachResult overwrites the candidate's stored result. Only the most
// recent attempt is kept; there is no history of prior attempts.
func (r *candidateRepository) AttachResult(candidateID string, result *model.InterviewResult) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		return nil, err
	}
	candidate.Result = result
	if err := r.db.Save(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}
