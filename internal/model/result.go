package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IndividualScore is the per-question entry of an AI evaluation.
type IndividualScore struct {
	QuestionIndex int     `json:"questionIndex"`
	Score         float64 `json:"score"`
	Feedback      string  `json:"feedback"`
}

// Evaluation is the scoring contract with the AI collaborator. On the
// fallback path only Error/Details are populated.
type Evaluation struct {
	OverallScore     float64           `json:"overallScore"`
	IndividualScores []IndividualScore `json:"individualScores,omitempty"`
	Strengths        []string          `json:"strengths,omitempty"`
	Improvements     []string          `json:"improvements,omitempty"`
	Recommendation   string            `json:"recommendation,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	Error            string            `json:"error,omitempty"`
	Details          string            `json:"details,omitempty"`
}

// InterviewResult is the terminal outcome of one interview. It is built
// exactly once, at finalization (success or fallback), and never mutated.
type InterviewResult struct {
	Score          float64            `json:"score"`
	Summary        string             `json:"summary"`
	Answers        []AnsweredQuestion `json:"answers"`
	AIEvaluation   *Evaluation        `json:"aiEvaluation,omitempty"`
	CompletedAt    time.Time          `json:"completedAt"`
	Recommendation string             `json:"recommendation"`
}

// Value serializes the result for the jsonb candidate column.
func (r InterviewResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan reads the jsonb candidate column. Legacy rows stored the result as a
// one-element array or as a JSON-encoded string; both shapes are normalized
// here, at the persistence boundary, so the rest of the code only ever sees
// a single well-typed result.
func (r *InterviewResult) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for interview result column", value)
	}
	if len(raw) == 0 {
		return nil
	}

	// JSON-encoded string wrapper.
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return fmt.Errorf("decode interview result string wrapper: %w", err)
		}
		raw = []byte(inner)
		if len(raw) == 0 {
			return nil
		}
	}

	// One-element array wrapper.
	if raw[0] == '[' {
		var list []InterviewResult
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("decode interview result array wrapper: %w", err)
		}
		if len(list) == 0 {
			return nil
		}
		*r = list[len(list)-1]
		return nil
	}

	var single InterviewResult
	if err := json.Unmarshal(raw, &single); err != nil {
		return fmt.Errorf("decode interview result: %w", err)
	}
	*r = single
	return nil
}
