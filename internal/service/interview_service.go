package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prehire/interview-api/internal/model"
	"github.com/prehire/interview-api/internal/repository"
	"github.com/rs/zerolog/log"
)

// integrityWarning is appended to the result summary when the candidate
// left fullscreen at any point during the interview.
const integrityWarning = "Warning: Candidate exited fullscreen during the interview."

// InterviewService is the finalization orchestrator: it converts a
// completed session into exactly one InterviewResult, degraded when the
// evaluation or persistence collaborators fail. It never returns an error;
// every failure below it becomes a fallback result.
type InterviewService interface {
	Finalize(ctx context.Context, sess *model.InterviewSession) *model.InterviewResult
}

type interviewService struct {
	evaluation    EvaluationService
	candidateRepo repository.CandidateRepository
	now           func() time.Time
}

func NewInterviewService(evaluation EvaluationService, candidateRepo repository.CandidateRepository) InterviewService {
	return &interviewService{
		evaluation:    evaluation,
		candidateRepo: candidateRepo,
		now:           time.Now,
	}
}

func (s *interviewService) Finalize(ctx context.Context, sess *model.InterviewSession) *model.InterviewResult {
	log.Info().Str("candidateID", sess.CandidateID).Int("answers", len(sess.Answers)).Msg("Starting interview evaluation")

	eval, err := s.evaluation.Evaluate(ctx, sess.Answers, sess.CandidateName, sess.ResumeContent)
	if err != nil {
		log.Error().Err(err).Str("candidateID", sess.CandidateID).Msg("AI evaluation failed, building fallback result")
		return s.fallback(sess, err)
	}

	summary := eval.Summary
	if sess.ExitedFullscreen {
		summary += "\n\n" + integrityWarning
	}
	recommendation := eval.Recommendation
	if recommendation == "" {
		recommendation = "No Hire"
	}

	result := &model.InterviewResult{
		Score:          eval.OverallScore,
		Summary:        summary,
		Answers:        sess.Answers,
		AIEvaluation:   eval,
		CompletedAt:    s.now(),
		Recommendation: recommendation,
	}

	if _, err := s.candidateRepo.AttachResult(sess.CandidateID, result); err != nil {
		log.Error().Err(err).Str("candidateID", sess.CandidateID).Msg("Failed to persist interview result, building fallback result")
		return s.fallback(sess, fmt.Errorf("persist interview result: %w", err))
	}

	log.Info().Str("candidateID", sess.CandidateID).Float64("score", result.Score).Str("recommendation", result.Recommendation).Msg("Interview result saved")
	return result
}

// fallback builds the degraded terminal result and still tries to persist
// it. A persistence failure here is logged, not escalated: the caller gets
// the in-memory result regardless.
func (s *interviewService) fallback(sess *model.InterviewSession, cause error) *model.InterviewResult {
	summary := fmt.Sprintf("Interview could not be evaluated. Error: %s", cause)
	if sess.ExitedFullscreen {
		summary += "\n\n" + integrityWarning
	}

	result := &model.InterviewResult{
		Score:          0,
		Summary:        summary,
		Answers:        sess.Answers,
		AIEvaluation:   &model.Evaluation{Error: "AI evaluation failed", Details: cause.Error()},
		CompletedAt:    s.now(),
		Recommendation: "No Hire",
	}

	if _, err := s.candidateRepo.AttachResult(sess.CandidateID, result); err != nil {
		log.Error().Err(err).Str("candidateID", sess.CandidateID).Msg("Failed to persist fallback result")
	}
	return result
}
