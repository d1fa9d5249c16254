package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

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

type BookingValidator struct {
	validate      *validator.Validate
	logger        *logger.Logger
	maxRentalDays int
}

func NewBookingValidator(log *logger.Logger, maxRentalDays int) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("metadata_map", validateMetadataMap); err != nil {
		log.Fatal("Failed to register 'metadata_map' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate:      v,
		logger:        log,
		maxRentalDays: maxRentalDays,
	}
}

func validateMetadataMap(fl validator.FieldLevel) bool {
	value := fl.Field()
	if value.IsNil() {
		return true
	}

	metadata, ok := value.Interface().(map[string]string)
	if !ok {
		return false
	}

	if len(metadata) > 50 {
		return false
	}

	for key, val := range metadata {
		if key == "" || len(key) > 100 || len(val) > 1000 {
			return false
		}
	}
	return true
}

// ValidateSpec checks one booking spec's shape before any capacity
// work. A spec failing here is reported per item and never aborts the
// batch.
func (v *BookingValidator) ValidateSpec(spec *model.BookingSpec) error {
	if err := v.validate.Struct(spec); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateRange(spec.StartTime, spec.EndTime)
}

func (v *BookingValidator) ValidateAvailabilityRequest(req *model.AvailabilityRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateRange(req.StartTime, req.EndTime)
}

func (v *BookingValidator) validateRange(start, end time.Time) error {
	if !end.After(start) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	if v.maxRentalDays > 0 {
		maxSpan := time.Duration(v.maxRentalDays) * 24 * time.Hour
		if end.Sub(start) > maxSpan {
			return ValidationErrors{
				ValidationError{
					Field:   "EndTime",
					Message: fmt.Sprintf("rental period cannot exceed %d days", v.maxRentalDays),
				},
			}
		}
	}

	return nil
}

// ValidateStatusTransition rejects moves the booking lifecycle does not
// allow.
func (v *BookingValidator) ValidateStatusTransition(current, next model.BookingStatus) error {
	if !next.IsValid() {
		return ValidationErrors{
			ValidationError{
				Field:   "Status",
				Message: fmt.Sprintf("unknown status %q", next),
			},
		}
	}
	if !current.CanTransitionTo(next) {
		return ValidationErrors{
			ValidationError{
				Field:   "Status",
				Message: fmt.Sprintf("cannot transition from %q to %q", current, next),
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "metadata_map":
			message = fmt.Sprintf("%s has invalid keys or values", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
