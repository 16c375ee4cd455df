package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error. Message is safe to show to
// visitors; Err carries the detail that only goes to the server log.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches DomainErrors by code and message so sentinel values survive wrapping.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
	ErrCodeConfiguration  = "CONFIGURATION_ERROR"
	ErrCodeDataFetch      = "DATA_FETCH_ERROR"
	ErrCodeEmptyKnowledge = "EMPTY_KNOWLEDGE"
	ErrCodeUpstream       = "UPSTREAM_ERROR"
	ErrCodeQuotaExceeded  = "QUOTA_EXCEEDED"
	ErrCodeBodyTooLarge   = "BODY_TOO_LARGE"
)

// Configuration errors
var (
	ErrMissingCompletionKey = NewDomainError(ErrCodeConfiguration, "Configuração do servidor incompleta: chave da OpenAI ausente")
	ErrMissingDatabase      = NewDomainError(ErrCodeConfiguration, "Configuração do servidor incompleta: banco de dados ausente")
	ErrMissingVoiceConfig   = NewDomainError(ErrCodeConfiguration, "Configuração de voz incompleta")
)

// Validation errors
var (
	ErrInvalidBody          = NewDomainError(ErrCodeValidation, "Corpo da requisição inválido")
	ErrBodyTooLarge         = NewDomainError(ErrCodeBodyTooLarge, "Corpo da requisição muito grande")
	ErrEmptyConversation    = NewDomainError(ErrCodeValidation, "messages é obrigatório")
	ErrInvalidMessageRole   = NewDomainError(ErrCodeValidation, "papel de mensagem inválido")
	ErrInvalidKnowledgeType = NewDomainError(ErrCodeValidation, "tipo de conhecimento inválido")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "campo obrigatório ausente")
	ErrMissingVideoID       = NewDomainError(ErrCodeValidation, "ID do vídeo é obrigatório")
	ErrInvalidVimeoLink     = NewDomainError(ErrCodeValidation, "link do Vimeo inválido")
	ErrInvalidAction        = NewDomainError(ErrCodeValidation, "Invalid action")
	ErrAssistantNotReady    = NewDomainError(ErrCodeValidation, "Assistant not initialized")
)

// Not found errors
var (
	ErrVideoNotFound            = NewDomainError(ErrCodeNotFound, "Vídeo não encontrado")
	ErrAssistantSessionNotFound = NewDomainError(ErrCodeNotFound, "assistant session not found")
)

// Authorization errors
var (
	ErrInvalidAdminKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)

// Knowledge errors
var (
	ErrEmptyKnowledge = NewDomainError(ErrCodeEmptyKnowledge, "Base de conhecimento vazia")
)

// QuotaExceededMessage is shown to visitors when the completion provider reports
// that the account ran out of quota.
const QuotaExceededMessage = "Limite de uso da API OpenAI atingido. Por favor, verifique a conta e o plano de faturamento."

// NewDataFetchError wraps a failed read from one of the knowledge tables.
func NewDataFetchError(table string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeDataFetch,
		fmt.Sprintf("Erro ao acessar a base de conhecimento (%s)", table), err)
}

// UpstreamError describes a non-success answer from the completion provider.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

// NewUpstreamError builds the visitor-facing error for a failed completion call.
// The provider detail is embedded in the message.
func NewUpstreamError(statusCode int, body string) *DomainError {
	statusText := http.StatusText(statusCode)
	if statusText == "" {
		statusText = fmt.Sprintf("status %d", statusCode)
	}
	return NewDomainErrorWithCause(ErrCodeUpstream,
		fmt.Sprintf("Erro na API do OpenAI: %s, detalhes: %s", statusText, body),
		&UpstreamError{StatusCode: statusCode, Status: statusText, Body: body})
}

// NewQuotaExceededError builds the quota-exhaustion variant of an upstream error.
func NewQuotaExceededError(statusCode int, body string) *DomainError {
	return NewDomainErrorWithCause(ErrCodeQuotaExceeded, QuotaExceededMessage,
		&UpstreamError{StatusCode: statusCode, Status: http.StatusText(statusCode), Body: body})
}

// CodeOf returns the DomainError code carried anywhere in err's chain.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
