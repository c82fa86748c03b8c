package services

import (
	"errors"
	"fmt"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of v and converts the first
// failure into an errs.ApiErr.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return errs.NewMissingRequiredFieldError(fe.Namespace())
		}
		return errs.NewInvalidFieldError(fe.Namespace(), fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param()))
	}
	return errs.NewMalformedPayloadError("form", err)
}
