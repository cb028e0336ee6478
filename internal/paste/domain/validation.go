package domain

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/pastecrypt/internal/validation"
)

// ValidateContent checks paste content or a message body before it is encrypted.
func ValidateContent(content string) error {
	err := validation.Validate(content,
		validation.Required,
		customValidation.NotBlank,
		customValidation.ValidUTF8,
		customValidation.MaxBytes(MaxContentBytes),
	)
	return customValidation.WrapValidationError(err)
}
