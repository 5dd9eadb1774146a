package models

// AnswerResult is the outcome of composing an answer for a question.
// It is a value type and is never mutated after creation.
type AnswerResult struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}
