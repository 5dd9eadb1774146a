package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeEmbedding         ErrorType = "embedding"
	ErrorTypeVectorIndex       ErrorType = "vector_index"
	ErrorTypeRetrieval         ErrorType = "retrieval"
	ErrorTypeCompletion        ErrorType = "completion"
	ErrorTypeMalformedAnswer   ErrorType = "malformed_answer"
	ErrorTypeQuestionAnswering ErrorType = "question_answering"
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeInternal          ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	ErrEmbeddingFailed   = NewDomainError(ErrorTypeEmbedding, "embedding provider call failed", nil)
	ErrIndexUnavailable  = NewDomainError(ErrorTypeVectorIndex, "vector index unavailable", nil)
	ErrRetrievalFailed   = NewDomainError(ErrorTypeRetrieval, "passage retrieval failed", nil)
	ErrCompletionFailed  = NewDomainError(ErrorTypeCompletion, "language model call failed", nil)
	ErrMalformedAnswer   = NewDomainError(ErrorTypeMalformedAnswer, "language model returned malformed answer", nil)
	ErrQuestionAnswering = NewDomainError(ErrorTypeQuestionAnswering, "question answering failed", nil)
	ErrEmptyQuestion     = NewDomainError(ErrorTypeValidation, "question cannot be empty", nil)
	ErrCorpusUnreadable  = NewDomainError(ErrorTypeInternal, "corpus file could not be read", nil)
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal error", nil)
)

// Error type checking helper functions

// IsEmbeddingError checks if an error is an embedding provider error
func IsEmbeddingError(err error) bool {
	return hasType(err, ErrorTypeEmbedding)
}

// IsIndexError checks if an error is a vector index error
func IsIndexError(err error) bool {
	return hasType(err, ErrorTypeVectorIndex)
}

// IsRetrievalError checks if an error is a retrieval error
func IsRetrievalError(err error) bool {
	return hasType(err, ErrorTypeRetrieval)
}

// IsCompletionError checks if an error is a language model transport error
func IsCompletionError(err error) bool {
	return hasType(err, ErrorTypeCompletion)
}

// IsMalformedAnswerError checks if an error is a malformed answer error
func IsMalformedAnswerError(err error) bool {
	return hasType(err, ErrorTypeMalformedAnswer)
}

// IsQuestionAnsweringError checks if an error is a top-level pipeline error
func IsQuestionAnsweringError(err error) bool {
	return hasType(err, ErrorTypeQuestionAnswering)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return hasType(err, ErrorTypeInternal)
}

// IsUpstreamError reports whether the error originated at an external
// collaborator (embedding provider, vector index, or language model),
// directly or anywhere in its cause chain.
func IsUpstreamError(err error) bool {
	for err != nil {
		var domainErr *DomainError
		if !errors.As(err, &domainErr) {
			return false
		}
		switch domainErr.Type {
		case ErrorTypeEmbedding, ErrorTypeVectorIndex, ErrorTypeRetrieval,
			ErrorTypeCompletion, ErrorTypeMalformedAnswer:
			return true
		}
		err = domainErr.Err
	}
	return false
}

func hasType(err error, errType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errType
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapEmbedding wraps an error as an embedding provider error
func WrapEmbedding(message string, err error) error {
	return NewDomainError(ErrorTypeEmbedding, message, err)
}

// WrapIndex wraps an error as a vector index error
func WrapIndex(message string, err error) error {
	return NewDomainError(ErrorTypeVectorIndex, message, err)
}

// WrapRetrieval wraps an error as a retrieval error
func WrapRetrieval(message string, err error) error {
	return NewDomainError(ErrorTypeRetrieval, message, err)
}

// WrapCompletion wraps an error as a language model transport error
func WrapCompletion(message string, err error) error {
	return NewDomainError(ErrorTypeCompletion, message, err)
}

// NewMalformedAnswer creates a malformed answer error
func NewMalformedAnswer(message string, err error) error {
	return NewDomainError(ErrorTypeMalformedAnswer, message, err)
}

// WrapQuestionAnswering wraps a pipeline failure, recording the elapsed
// time up to the failure point in the error details.
func WrapQuestionAnswering(message string, err error, elapsedSeconds float64) error {
	return NewDomainError(ErrorTypeQuestionAnswering, message, err).
		WithDetail("elapsed_seconds", elapsedSeconds)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
