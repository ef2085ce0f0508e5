package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/prehire/interview-api/internal/dto"
	"github.com/prehire/interview-api/internal/model"
	"github.com/prehire/interview-api/internal/repository"
	"github.com/rs/zerolog/log"
)

type CandidateService interface {
	Create(req dto.CandidateCreateDTO) (*dto.CandidateResponseDTO, error)
	List() ([]dto.CandidateResponseDTO, error)
	Get(id string) (*dto.CandidateResponseDTO, error)
	Find(id string) (*model.Candidate, error)
	AttachResult(id string, result *model.InterviewResult) (*dto.CandidateResponseDTO, error)
}

type candidateService struct {
	candidateRepo repository.CandidateRepository
}

func NewCandidateService(candidateRepo repository.CandidateRepository) CandidateService {
	return &candidateService{candidateRepo: candidateRepo}
}

func (s *candidateService) Create(req dto.CandidateCreateDTO) (*dto.CandidateResponseDTO, error) {
	candidate := model.Candidate{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		ResumeContent: req.ResumeContent,
	}
	if err := s.candidateRepo.Create(&candidate); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create candidate")
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	return toCandidateDTO(&candidate)
}

func (s *candidateService) List() ([]dto.CandidateResponseDTO, error) {
	candidates, err := s.candidateRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	dtos := make([]dto.CandidateResponseDTO, 0, len(candidates))
	for i := range candidates {
		resp, err := toCandidateDTO(&candidates[i])
		if err != nil {
			log.Error().Err(err).Str("candidateID", candidates[i].ID).Msg("Failed to map candidate to DTO")
			continue
		}
		dtos = append(dtos, *resp)
	}
	return dtos, nil
}

func (s *candidateService) Get(id string) (*dto.CandidateResponseDTO, error) {
	candidate, err := s.candidateRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("candidate not found with ID %s: %w", id, err)
	}
	return toCandidateDTO(candidate)
}

func (s *candidateService) Find(id string) (*model.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("candidate not found with ID %s: %w", id, err)
	}
	return candidate, nil
}

func (s *candidateService) AttachResult(id string, result *model.InterviewResult) (*dto.CandidateResponseDTO, error) {
	candidate, err := s.candidateRepo.AttachResult(id, result)
	if err != nil {
		return nil, fmt.Errorf("attach result to candidate %s: %w", id, err)
	}
	return toCandidateDTO(candidate)
}

func toCandidateDTO(candidate *model.Candidate) (*dto.CandidateResponseDTO, error) {
	var resp dto.CandidateResponseDTO
	if err := copier.Copy(&resp, candidate); err != nil {
		return nil, fmt.Errorf("map candidate to DTO: %w", err)
	}
	return &resp, nil
}
