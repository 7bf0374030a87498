package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AttestErrorBadInput              = "ATTEST_BAD_INPUT"
	AttestErrorCrypto                = "ATTEST_CRYPTO_ERROR"
	AttestErrorAuthorizationFailed   = "ATTEST_AUTHORIZATION_FAILED"
	AttestErrorProofGenerationFailed = "ATTEST_PROOF_GENERATION_FAILED"
	AttestErrorStore                 = "ATTEST_STORE_ERROR"
	AttestErrorInternal              = "ATTEST_INTERNAL_ERROR"
)

var (
	ErrCrypto          = errors.New("core: invalid key material")
	ErrAuthorization   = errors.New("core: authorization failed")
	ErrProofGeneration = errors.New("core: proof generation failed")
)

// CryptoError reports unusable key material during signature generation.
// Fatal for the call; never retried.
type CryptoError struct {
	Message string
	Cause   error
}

func (e *CryptoError) Error() string {
	if e == nil {
		return ErrCrypto.Error()
	}
	base := ErrCrypto.Error()
	if strings.TrimSpace(e.Message) != "" {
		base += ": " + strings.TrimSpace(e.Message)
	}
	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}
	return base
}

func (e *CryptoError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrCrypto
	}
	return e.Cause
}

func (e *CryptoError) Is(target error) bool {
	return target == ErrCrypto
}

// AuthorizationError reports a non-SUCCESS or unparseable authorize
// response. ServerMessage is the server-reported message when present;
// header values are never embedded.
type AuthorizationError struct {
	StatusCode    int
	ServerMessage string
	Message       string
	Cause         error
}

func (e *AuthorizationError) Error() string {
	if e == nil {
		return ErrAuthorization.Error()
	}
	base := ErrAuthorization.Error()
	if strings.TrimSpace(e.Message) != "" {
		base += ": " + strings.TrimSpace(e.Message)
	}
	if strings.TrimSpace(e.ServerMessage) != "" {
		base += ": " + strings.TrimSpace(e.ServerMessage)
	}
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}
	return base
}

func (e *AuthorizationError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrAuthorization
	}
	return e.Cause
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrAuthorization
}

// ProofGenerationError reports that the attestation engine returned no proof:
// an assertion failed upstream, or the engine exhausted its caller-requested
// retries.
type ProofGenerationError struct {
	Operation string
	URL       string
	Message   string
	Cause     error
}

func (e *ProofGenerationError) Error() string {
	if e == nil {
		return ErrProofGeneration.Error()
	}
	base := ErrProofGeneration.Error()
	if strings.TrimSpace(e.Operation) != "" {
		base += ": " + strings.TrimSpace(e.Operation)
	}
	if strings.TrimSpace(e.Message) != "" {
		base += ": " + strings.TrimSpace(e.Message)
	}
	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}
	return base
}

func (e *ProofGenerationError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrProofGeneration
	}
	return e.Cause
}

func (e *ProofGenerationError) Is(target error) bool {
	return target == ErrProofGeneration
}

// MapError normalizes any error from this module into a go-errors envelope
// with a category, HTTP status code, and ATTEST_* text code.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAttestErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrCrypto):
		return newAttestError(err.Error(), goerrors.CategoryInternal, AttestErrorCrypto)
	case errors.Is(err, ErrAuthorization):
		return newAttestError(err.Error(), goerrors.CategoryAuth, AttestErrorAuthorizationFailed)
	case errors.Is(err, ErrProofGeneration):
		return newAttestError(err.Error(), goerrors.CategoryOperation, AttestErrorProofGenerationFailed)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "mismatch"):
		return newAttestError(err.Error(), goerrors.CategoryBadInput, AttestErrorBadInput)
	case strings.Contains(msg, "store"), strings.Contains(msg, "ledger"):
		return newAttestError(err.Error(), goerrors.CategoryInternal, AttestErrorStore)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAttestErrorEnvelope(mapped)
}

func newBadInputError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(AttestErrorBadInput)
}

func newAttestError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAttestErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureAttestErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = attestHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAttestTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAttestTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AttestErrorBadInput
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return AttestErrorAuthorizationFailed
	case goerrors.CategoryOperation:
		return AttestErrorProofGenerationFailed
	default:
		return AttestErrorInternal
	}
}

func attestHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryOperation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
