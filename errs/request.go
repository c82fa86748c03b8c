package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Request & input-validation errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrMismatchedFieldGroup = errors.New("mismatched repeated field group")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrConsentRequired      = errors.New("consent required")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidSession       = errors.New("invalid session")
	ErrInvalidFilename      = errors.New("invalid filename")
	ErrValidation           = errors.New("validation failed")
)

const genericValidationMessage = "Verifique os campos do formulário e tente novamente."

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Message:    genericValidationMessage,
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Message:    "Preencha todos os campos obrigatórios.",
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Message:    genericValidationMessage,
		Field:      fieldName,
	}
}

// NewMismatchedFieldGroupError reports parallel form arrays of different lengths.
func NewMismatchedFieldGroupError(group string, lengths map[string]int) *ApiErr {
	parts := make([]string, 0, len(lengths))
	for name, n := range lengths {
		parts = append(parts, fmt.Sprintf("%s=%d", name, n))
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMismatchedFieldGroup,
		Details:    fmt.Sprintf("Group %s has fields of different lengths (%s)", group, strings.Join(parts, ", ")),
		Message:    genericValidationMessage,
		Field:      group,
	}
}

func NewUnsupportedFileTypeError(filename string, allowed []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedFileType,
		Details:    fmt.Sprintf("File %q is not one of %v", filename, allowed),
		Field:      "file",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Message:    "O arquivo enviado é grande demais.",
		Field:      "body_size",
	}
}

func NewConsentRequiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrConsentRequired,
		Details:    "Consent checkbox was not ticked",
		Message:    "Você precisa ler e aceitar os termos para continuar.",
		Field:      "consent",
	}
}

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
		Message:    "Login falhou. Verifique o usuário e a senha.",
		Field:      "password",
	}
}

func NewInvalidSessionError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidSession,
		Cause:      cause,
	}
}

func NewInvalidFilenameError(name, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidFilename,
		Details:    fmt.Sprintf("Filename %q rejected: %s", name, reason),
		Field:      "filename",
	}
}

// NewValidationError carries a visitor-facing message for a failed form.
func NewValidationError(field, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    fmt.Sprintf("Validation failed on %s", field),
		Message:    message,
		Field:      field,
	}
}

// IsValidation reports whether err is one of the request validation errors.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrMalformedPayload,
		ErrMissingRequiredField,
		ErrInvalidField,
		ErrMismatchedFieldGroup,
		ErrMaxBodySizeExceeded,
		ErrConsentRequired,
		ErrValidation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
