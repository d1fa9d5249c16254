package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"gearpool/pkg/logger"
	"gearpool/pkg/model"
)

type ClientValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewClientValidator(log *logger.Logger) *ClientValidator {
	return &ClientValidator{
		validate: validator.New(),
		log:      log,
	}
}

// Validate expects the phone to already be normalized to E.164 by the
// service sanitization step.
func (v *ClientValidator) Validate(client *model.Client) error {
	if err := v.validate.Struct(client); err != nil {
		return translate(err)
	}
	return nil
}

func (v *ClientValidator) ValidateUpdate(updates *model.ClientUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param()))
		case "e164":
			messages = append(messages, fmt.Sprintf("%s must be a valid international phone number", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "mongodb":
			messages = append(messages, fmt.Sprintf("%s must be a valid object id", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
