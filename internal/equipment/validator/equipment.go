package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"gearpool/pkg/logger"
	"gearpool/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type EquipmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewEquipmentValidator(log *logger.Logger) *EquipmentValidator {
	return &EquipmentValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *EquipmentValidator) Validate(equipment *model.Equipment) error {
	if err := v.validate.Struct(equipment); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}

	// A serialized item is a pool of one; a serial number on a pooled
	// line would silently never be enforced.
	if equipment.Unique && equipment.SerialNumber == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "SerialNumber",
				Message: "unique equipment requires a serial number",
			},
		}
	}
	if equipment.Unique && equipment.TotalQuantity != 1 {
		return ValidationErrors{
			ValidationError{
				Field:   "TotalQuantity",
				Message: "unique equipment always has total_quantity 1",
			},
		}
	}
	if !equipment.Unique && equipment.SerialNumber != "" {
		return ValidationErrors{
			ValidationError{
				Field:   "SerialNumber",
				Message: "pooled equipment cannot carry a serial number",
			},
		}
	}

	return nil
}

func (v *EquipmentValidator) ValidateUpdate(update *model.EquipmentUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
