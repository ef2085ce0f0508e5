package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one interview question. The set of six is fixed at session
// start and never mutated afterwards.
type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"question"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"time_limit"` // seconds
}

// FullStackQuestions returns the fixed interview set: two easy (20s), two
// medium (60s), two hard (120s), in that order.
func FullStackQuestions() []Question {
	return []Question{
		{
			ID:         "1",
			Prompt:     "What does JSX stand for?",
			Difficulty: DifficultyEasy,
			TimeLimit:  20,
		},
		{
			ID:         "2",
			Prompt:     "Explain the difference between npm and yarn package managers.",
			Difficulty: DifficultyEasy,
			TimeLimit:  20,
		},
		{
			ID:         "3",
			Prompt:     "How would you implement user authentication in a React/Node.js application? Describe the flow.",
			Difficulty: DifficultyMedium,
			TimeLimit:  60,
		},
		{
			ID:         "4",
			Prompt:     "Explain React hooks like useState and useEffect. When would you use each?",
			Difficulty: DifficultyMedium,
			TimeLimit:  60,
		},
		{
			ID:         "5",
			Prompt:     "Design a real-time chat application architecture using React and Node.js. What technologies would you use and why?",
			Difficulty: DifficultyHard,
			TimeLimit:  120,
		},
		{
			ID:         "6",
			Prompt:     "How would you optimize a React application for performance? Explain lazy loading, memoization, and other techniques.",
			Difficulty: DifficultyHard,
			TimeLimit:  120,
		},
	}
}
