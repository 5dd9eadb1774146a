// Package compose builds a grounded prompt from retrieved passages,
// invokes the language model in structured-output mode, and validates the
// two-field answer schema.
package compose

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dotnetIka/histqa/models"
	"github.com/dotnetIka/histqa/providers"
	"github.com/dotnetIka/histqa/services"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// InsufficientContextAnswer is the fixed sentinel returned when retrieval
// produced no passages. The caller must never cache it.
const InsufficientContextAnswer = "I don't have enough information to answer this question."

// DefaultTemperature balances faithfulness against fluency.
const DefaultTemperature = 0.7

const systemPrompt = `You are a helpful assistant that answers questions about the Democratic Republic of Georgia (1918-1921).
Use the provided context to answer the question. If you don't know the answer, say 'I don't know'.

Your response should be in JSON format with two fields:
- answer: The answer to the question
- confidence: A confidence score between 0 and 1

Example format:
{
    "answer": "The answer to the question",
    "confidence": 0.95
}`

// answerPayload is the strict schema the model's output must satisfy.
// Pointer fields distinguish a missing field from a zero value.
type answerPayload struct {
	Answer     *string  `json:"answer" validate:"required"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
}

// Composer turns a question plus retrieved context into an AnswerResult.
// It performs no retries; any transport or schema failure propagates.
type Composer struct {
	completer   providers.Completer
	temperature float64
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewComposer creates a composer. A non-positive temperature falls back to
// DefaultTemperature.
func NewComposer(completer providers.Completer, temperature float64, logger *zap.Logger) *Composer {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &Composer{
		completer:   completer,
		temperature: temperature,
		validate:    validator.New(),
		logger:      logger,
	}
}

// SentinelResult returns the fixed result for questions with no context.
func SentinelResult() models.AnswerResult {
	return models.AnswerResult{
		Answer:     InsufficientContextAnswer,
		Confidence: 0.0,
	}
}

// IsSentinel reports whether a result is the insufficient-context sentinel.
func IsSentinel(result models.AnswerResult) bool {
	return result.Answer == InsufficientContextAnswer && result.Confidence == 0.0
}

// Compose produces a grounded answer for the question. With empty context
// it short-circuits to the sentinel without calling the model.
func (c *Composer) Compose(ctx context.Context, question string, passages []string) (models.AnswerResult, error) {
	if len(passages) == 0 {
		c.logger.Warn("no context provided for question answering")
		return SentinelResult(), nil
	}

	userPrompt := buildUserPrompt(question, passages)

	raw, err := c.completer.Complete(ctx, systemPrompt, userPrompt, c.temperature)
	if err != nil {
		return models.AnswerResult{}, err
	}

	result, err := c.parseAnswer(raw)
	if err != nil {
		return models.AnswerResult{}, err
	}

	c.logger.Debug("composed answer",
		zap.Float64("confidence", result.Confidence),
		zap.Int("context_passages", len(passages)))

	return result, nil
}

// parseAnswer validates the model output against the two-field schema.
func (c *Composer) parseAnswer(raw string) (models.AnswerResult, error) {
	var payload answerPayload

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return models.AnswerResult{}, services.NewMalformedAnswer("model output is not valid answer JSON", err)
	}

	if err := c.validate.Struct(&payload); err != nil {
		return models.AnswerResult{}, services.NewMalformedAnswer("model output failed schema validation", err)
	}

	return models.AnswerResult{
		Answer:     *payload.Answer,
		Confidence: *payload.Confidence,
	}, nil
}

// buildUserPrompt joins all passages with a single space, order preserved,
// followed by the question.
func buildUserPrompt(question string, passages []string) string {
	var b strings.Builder
	b.WriteString("Context: ")
	b.WriteString(strings.Join(passages, " "))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
