package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prehire/interview-api/internal/dto"
	"github.com/prehire/interview-api/internal/model"
	"github.com/prehire/interview-api/internal/service"
	"github.com/rs/zerolog/log"
)

type CandidateController struct {
	candidateSvc service.CandidateService
	resumeSvc    service.ResumeParserService
}

func NewCandidateController(candidateSvc service.CandidateService, resumeSvc service.ResumeParserService) *CandidateController {
	return &CandidateController{
		candidateSvc: candidateSvc,
		resumeSvc:    resumeSvc,
	}
}

// CreateCandidate godoc
// @Summary Register a candidate
// @Description Create a candidate record. All contact fields are required; missing or invalid ones are listed in the response.
// @Tags candidates
// @Accept json
// @Produce json
// @Param candidate body dto.CandidateCreateDTO true "Candidate data"
// @Success 201 {object} dto.CandidateResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /candidates [post]
func (ctrl *CandidateController) CreateCandidate(c *gin.Context) {
	var req dto.CandidateCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CandidateCreateDTO")
		c.JSON(http.StatusBadRequest, bindingErrorResponse(err))
		return
	}

	resp, err := ctrl.candidateSvc.Create(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create candidate")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create candidate"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAllCandidates godoc
// @Summary List all candidates
// @Description Retrieve every candidate, newest first, with their most recent interview result when present.
// @Tags candidates
// @Produce json
// @Success 200 {array} dto.CandidateResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /candidates [get]
func (ctrl *CandidateController) GetAllCandidates(c *gin.Context) {
	candidates, err := ctrl.candidateSvc.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list candidates")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve candidates"})
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// GetCandidate godoc
// @Summary Get one candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} dto.CandidateResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /candidates/{id} [get]
func (ctrl *CandidateController) GetCandidate(c *gin.Context) {
	resp, err := ctrl.candidateSvc.Get(c.Param("id"))
	if err != nil {
		log.Warn().Err(err).Str("candidateID", c.Param("id")).Msg("Candidate not found")
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Candidate not found"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AttachResult godoc
// @Summary Attach an interview result to a candidate
// @Description Overwrites the candidate's stored result with the submitted one. Only the most recent attempt is kept.
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param result body model.InterviewResult true "Interview result"
// @Success 200 {object} dto.CandidateResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/results [post]
func (ctrl *CandidateController) AttachResult(c *gin.Context) {
	var result model.InterviewResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.candidateSvc.AttachResult(c.Param("id"), &result)
	if err != nil {
		log.Error().Err(err).Str("candidateID", c.Param("id")).Msg("Failed to attach interview result")
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Candidate not found or result could not be saved"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ParseResume godoc
// @Summary Parse an uploaded résumé
// @Description Extract name, email and phone from a résumé file. Extraction is best effort; empty fields must be completed manually.
// @Tags resume
// @Accept mpfd
// @Produce json
// @Param file formData file true "Résumé file (PDF or DOCX)"
// @Success 200 {object} dto.ResumeParseResponseDTO
// @Failure 400 {object} dto.ErrorResponse "No file provided"
// @Failure 502 {object} dto.ErrorResponse "Resume parsing failed"
// @Router /resume/parse [post]
func (ctrl *CandidateController) ParseResume(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Could not read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Could not read uploaded file"})
		return
	}

	resp, err := ctrl.resumeSvc.Parse(c.Request.Context(), data)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Resume parsing failed")
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Failed to parse resume"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bindingErrorResponse turns validator errors into an explicit list of
// missing or invalid fields so the caller can fix the form in one pass.
func bindingErrorResponse(err error) dto.ErrorResponse {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, strings.ToLower(fieldErr.Field()))
		}
		return dto.ErrorResponse{Error: "Missing or invalid fields", Fields: fields}
	}
	return dto.ErrorResponse{Error: err.Error()}
}
