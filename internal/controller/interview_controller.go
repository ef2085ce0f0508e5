package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prehire/interview-api/internal/dto"
	"github.com/prehire/interview-api/internal/service"
	"github.com/prehire/interview-api/internal/session"
	"github.com/rs/zerolog/log"
)

type InterviewController struct {
	candidateSvc service.CandidateService
	interviewSvc service.InterviewService
	manager      *session.Manager
}

func NewInterviewController(candidateSvc service.CandidateService, interviewSvc service.InterviewService, manager *session.Manager) *InterviewController {
	return &InterviewController{
		candidateSvc: candidateSvc,
		interviewSvc: interviewSvc,
		manager:      manager,
	}
}

// engine attaches (and restores, on first touch) the candidate's engine.
func (ctrl *InterviewController) engine(c *gin.Context) (*session.Engine, bool) {
	candidate, err := ctrl.candidateSvc.Find(c.Param("candidate_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Candidate not found"})
		return nil, false
	}
	return ctrl.manager.Engine(candidate, ctrl.interviewSvc.Finalize), true
}

// GetState godoc
// @Summary Get the interview session state
// @Description Returns the candidate's session state. Touching this endpoint restores any pending snapshot; a restored, unfinished session reports phase "welcome_back" until the candidate resumes or restarts.
// @Tags interviews
// @Produce json
// @Param candidate_id path string true "Candidate ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /interviews/{candidate_id} [get]
func (ctrl *InterviewController) GetState(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateDTO(engine))
}

// Start godoc
// @Summary Start the interview
// @Description Begins a fresh interview at question 0 and starts its countdown.
// @Tags interviews
// @Produce json
// @Param candidate_id path string true "Candidate ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "Already started, completed, or a restored session awaits a resume/restart decision"
// @Router /interviews/{candidate_id}/start [post]
func (ctrl *InterviewController) Start(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}
	if err := engine.Start(); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctrl.manager.RecordStage(c.Param("candidate_id"), "interview")
	c.JSON(http.StatusOK, stateDTO(engine))
}

// Resume godoc
// @Summary Resume a restored session
// @Description Continues a restored session from where it left off, with remaining time and the in-progress answer intact.
// @Tags interviews
// @Produce json
// @Param candidate_id path string true "Candidate ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "No restored session to resume"
// @Router /interviews/{candidate_id}/resume [post]
func (ctrl *InterviewController) Resume(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}
	if err := engine.Resume(); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctrl.manager.RecordStage(c.Param("candidate_id"), "interview")
	c.JSON(http.StatusOK, stateDTO(engine))
}

// Restart godoc
// @Summary Restart the interview
// @Description Discards the stored snapshot and resets the session to its initial state.
// @Tags interviews
// @Produce json
// @Param candidate_id path string true "Candidate ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /interviews/{candidate_id}/restart [post]
func (ctrl *InterviewController) Restart(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}
	engine.Restart()
	ctrl.manager.RecordStage(c.Param("candidate_id"), "registration")
	c.JSON(http.StatusOK, stateDTO(engine))
}

// SubmitAnswer godoc
// @Summary Submit the current answer
// @Description Records a manual submission and advances to the next question. Submitting the last answer blocks until evaluation finishes and returns the interview result.
// @Tags interviews
// @Accept json
// @Produce json
// @Param candidate_id path string true "Candidate ID"
// @Param answer body dto.AnswerSubmitDTO true "Answer text (non-empty)"
// @Success 200 {object} dto.SubmitOutcomeDTO
// @Failure 400 {object} dto.ErrorResponse "Empty answer"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "Interview is not in progress"
// @Router /interviews/{candidate_id}/answers [post]
func (ctrl *InterviewController) SubmitAnswer(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}

	var req dto.AnswerSubmitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := engine.SubmitAnswer(c.Request.Context(), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyAnswer):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Answer must not be empty"})
		case errors.Is(err, session.ErrNotInProgress):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Interview is not in progress"})
		default:
			log.Error().Err(err).Str("candidateID", c.Param("candidate_id")).Msg("Failed to submit answer")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to submit answer"})
		}
		return
	}

	resp := dto.SubmitOutcomeDTO{Completed: outcome.Completed, Result: outcome.Result}
	if outcome.Completed {
		ctrl.manager.RecordStage(c.Param("candidate_id"), "results")
	} else {
		state := stateDTO(engine)
		resp.State = &state
	}
	c.JSON(http.StatusOK, resp)
}

// SaveDraft godoc
// @Summary Save the in-progress answer draft
// @Description Updates the current answer buffer so typing survives a reload. May be empty.
// @Tags interviews
// @Accept json
// @Produce json
// @Param candidate_id path string true "Candidate ID"
// @Param draft body dto.AnswerDraftDTO true "Draft text"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "Interview is not in progress"
// @Router /interviews/{candidate_id}/draft [put]
func (ctrl *InterviewController) SaveDraft(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}

	var req dto.AnswerDraftDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := engine.SetDraft(req.Answer); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Interview is not in progress"})
		return
	}
	c.Status(http.StatusNoContent)
}

// FullscreenExit godoc
// @Summary Report a fullscreen exit
// @Description Sets the one-way integrity latch. The final summary carries a warning when it was set. Cleared only by a restart.
// @Tags interviews
// @Param candidate_id path string true "Candidate ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /interviews/{candidate_id}/fullscreen-exit [post]
func (ctrl *InterviewController) FullscreenExit(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}
	engine.RecordFullscreenExit()
	c.Status(http.StatusNoContent)
}

// Unload godoc
// @Summary Page-unload beacon
// @Description Best-effort snapshot save when the candidate navigates away mid-interview.
// @Tags interviews
// @Param candidate_id path string true "Candidate ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /interviews/{candidate_id}/unload [post]
func (ctrl *InterviewController) Unload(c *gin.Context) {
	engine, ok := ctrl.engine(c)
	if !ok {
		return
	}
	engine.SaveNow()
	c.Status(http.StatusNoContent)
}

func stateDTO(engine *session.Engine) dto.SessionStateDTO {
	snap := engine.Snapshot()
	state := dto.SessionStateDTO{
		CandidateID:          snap.CandidateID,
		Phase:                string(engine.Phase()),
		CurrentQuestionIndex: snap.CurrentQuestionIndex,
		TotalQuestions:       len(snap.Questions),
		CurrentAnswer:        snap.CurrentAnswer,
		TimeLeft:             snap.TimeLeft,
		AnswersCompleted:     len(snap.Answers),
		ExitedFullscreen:     snap.ExitedFullscreen,
		StartedAt:            snap.StartedAt,
	}
	if question := snap.CurrentQuestion(); question != nil {
		state.CurrentQuestion = &dto.QuestionDTO{
			ID:         question.ID,
			Prompt:     question.Prompt,
			Difficulty: string(question.Difficulty),
			TimeLimit:  question.TimeLimit,
		}
	}
	return state
}
