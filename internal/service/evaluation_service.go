package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/prehire/interview-api/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	evaluationAttempts = 3
	evaluationBackoff  = time.Second
)

// Scorer is the external AI scoring collaborator. It returns the raw model
// output, which may be prose-wrapped or otherwise malformed JSON.
type Scorer interface {
	Score(ctx context.Context, prompt string) (string, error)
}

// EvaluationService turns a full answer set into a validated Evaluation. It
// retries the scoring collaborator a bounded number of times and reports a
// terminal error once attempts are exhausted; it never panics on malformed
// collaborator output.
type EvaluationService interface {
	Evaluate(ctx context.Context, answers []model.AnsweredQuestion, candidateName, resumeContent string) (*model.Evaluation, error)
}

type evaluationService struct {
	scorer   Scorer
	attempts int
	backoff  time.Duration
}

func NewEvaluationService(scorer Scorer) EvaluationService {
	return &evaluationService{
		scorer:   scorer,
		attempts: evaluationAttempts,
		backoff:  evaluationBackoff,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, answers []model.AnsweredQuestion, candidateName, resumeContent string) (*model.Evaluation, error) {
	if len(answers) == 0 {
		return nil, errors.New("no answers to evaluate")
	}
	prompt := buildEvaluationPrompt(answers, candidateName, resumeContent)

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		raw, err := s.scorer.Score(ctx, prompt)
		if err == nil {
			var eval *model.Evaluation
			eval, err = parseEvaluation(raw, len(answers))
			if err == nil {
				log.Info().Int("attempt", attempt).Float64("overallScore", eval.OverallScore).Msg("AI evaluation parsed successfully")
				return eval, nil
			}
		}

		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("AI evaluation attempt failed")
		if attempt < s.attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff):
			}
		}
	}

	return nil, fmt.Errorf("AI evaluation failed after %d attempts: %w", s.attempts, lastErr)
}

func buildEvaluationPrompt(answers []model.AnsweredQuestion, candidateName, resumeContent string) string {
	var b strings.Builder

	b.WriteString("You are a STRICT technical interviewer. Score each answer 0-100 based on technical accuracy.\n\n")
	fmt.Fprintf(&b, "Candidate: %s\n", candidateName)
	if resumeContent != "" {
		fmt.Fprintf(&b, "Resume:\n%s\n", resumeContent)
	}
	b.WriteString("Interview Answers:\n")
	for i, answer := range answers {
		fmt.Fprintf(&b, "\nQ%d: %s\nAnswer: %q\nTime Spent: %ds\nDifficulty: %s\n---", i+1, answer.Question, answer.Answer, answer.TimeSpent, difficultyLabel(i))
	}

	b.WriteString("\n\nCRITICAL: Respond with ONLY valid JSON. No extra text before or after.\n\n")
	b.WriteString("{\n  \"overallScore\": <number>,\n  \"individualScores\": [\n")
	for i := range answers {
		fmt.Fprintf(&b, "    {\"questionIndex\": %d, \"score\": <number>, \"feedback\": \"<feedback>\"}", i)
		if i < len(answers)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  ],\n  \"strengths\": [\"strength1\", \"strength2\"],\n  \"improvements\": [\"improvement1\", \"improvement2\"],\n  \"recommendation\": \"Hire\",\n  \"summary\": \"Assessment summary\"\n}")

	return b.String()
}

// The fixed interview is ordered easy, easy, medium, medium, hard, hard.
func difficultyLabel(index int) string {
	switch {
	case index < 2:
		return "Easy"
	case index < 4:
		return "Medium"
	default:
		return "Hard"
	}
}

var (
	codeFencePattern     = regexp.MustCompile("```(?:json)?")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// sanitizeModelJSON extracts a parseable JSON object from raw model output:
// markdown fences are stripped, leading/trailing prose is cut at the first
// '{' and last '}', trailing commas are removed, and whitespace runs are
// collapsed.
func sanitizeModelJSON(raw string) (string, error) {
	cleaned := codeFencePattern.ReplaceAllString(strings.TrimSpace(raw), "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no JSON object found in model output")
	}
	cleaned = cleaned[start : end+1]

	cleaned = trailingCommaPattern.ReplaceAllString(cleaned, "$1")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return cleaned, nil
}

// scoredAnswerPayload and evaluationPayload use pointer fields so that a
// missing field is distinguishable from a zero value during validation.
type scoredAnswerPayload struct {
	QuestionIndex *int     `json:"questionIndex"`
	Score         *float64 `json:"score"`
	Feedback      *string  `json:"feedback"`
}

type evaluationPayload struct {
	OverallScore     *float64              `json:"overallScore"`
	IndividualScores []scoredAnswerPayload `json:"individualScores"`
	Strengths        []string              `json:"strengths"`
	Improvements     []string              `json:"improvements"`
	Recommendation   *string               `json:"recommendation"`
	Summary          *string               `json:"summary"`
}

func parseEvaluation(raw string, expectedAnswers int) (*model.Evaluation, error) {
	cleaned, err := sanitizeModelJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse evaluation JSON: %w", err)
	}
	if err := validateEvaluation(&payload, expectedAnswers); err != nil {
		return nil, fmt.Errorf("invalid evaluation structure: %w", err)
	}

	eval := model.Evaluation{
		OverallScore:   *payload.OverallScore,
		Strengths:      payload.Strengths,
		Improvements:   payload.Improvements,
		Recommendation: *payload.Recommendation,
		Summary:        *payload.Summary,
	}
	for _, entry := range payload.IndividualScores {
		eval.IndividualScores = append(eval.IndividualScores, model.IndividualScore{
			QuestionIndex: *entry.QuestionIndex,
			Score:         *entry.Score,
			Feedback:      *entry.Feedback,
		})
	}
	return &eval, nil
}

func validateEvaluation(payload *evaluationPayload, expectedAnswers int) error {
	if payload.OverallScore == nil {
		return errors.New("overallScore is missing")
	}
	if payload.IndividualScores == nil {
		return errors.New("individualScores is missing")
	}
	if len(payload.IndividualScores) != expectedAnswers {
		return fmt.Errorf("individualScores has %d entries, expected %d", len(payload.IndividualScores), expectedAnswers)
	}
	for i, entry := range payload.IndividualScores {
		if entry.QuestionIndex == nil {
			return fmt.Errorf("individualScores[%d] questionIndex is missing", i)
		}
		if entry.Score == nil {
			return fmt.Errorf("individualScores[%d] score is missing", i)
		}
		if *entry.Score < 0 || *entry.Score > 100 {
			return fmt.Errorf("individualScores[%d] score %.1f is out of range [0,100]", i, *entry.Score)
		}
		if entry.Feedback == nil {
			return fmt.Errorf("individualScores[%d] feedback is missing", i)
		}
	}
	if payload.Strengths == nil {
		return errors.New("strengths is missing")
	}
	if payload.Improvements == nil {
		return errors.New("improvements is missing")
	}
	if payload.Recommendation == nil {
		return errors.New("recommendation is missing")
	}
	if payload.Summary == nil {
		return errors.New("summary is missing")
	}
	return nil
}
