package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errEmptyImage     = errors.New("missing image payload")
	errNotAnImage     = errors.New("file must be an image")
	errImageTooLarge  = errors.New("image file too large")
	errMissingPatient = errors.New("missing patient identifier")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Validator checks analysis requests before any network I/O happens.
type Validator struct {
	maxBytes       int64
	requirePatient bool
}

func NewValidator(maxBytes int64, requirePatient bool) *Validator {
	return &Validator{maxBytes: maxBytes, requirePatient: requirePatient}
}

func (v *Validator) Validate(req Request) error {
	if v == nil {
		return ValidationError{reason: errors.New("validator not initialised")}
	}
	if len(req.ImageBytes) == 0 {
		return ValidationError{reason: errEmptyImage}
	}
	if !strings.HasPrefix(req.MimeType, "image/") {
		return ValidationError{reason: fmt.Errorf("%w: got %q", errNotAnImage, req.MimeType)}
	}
	if v.maxBytes > 0 && int64(len(req.ImageBytes)) > v.maxBytes {
		return ValidationError{reason: fmt.Errorf("%w: %d bytes (max %d)", errImageTooLarge, len(req.ImageBytes), v.maxBytes)}
	}
	if v.requirePatient && strings.TrimSpace(req.PatientID) == "" {
		return ValidationError{reason: errMissingPatient}
	}
	return nil
}
