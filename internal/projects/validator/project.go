package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"gearpool/pkg/logger"
	"gearpool/pkg/model"
)

type ProjectValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewProjectValidator(log *logger.Logger) *ProjectValidator {
	return &ProjectValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *ProjectValidator) Validate(project *model.Project) error {
	if err := v.validate.Struct(project); err != nil {
		return translate(err)
	}
	return nil
}

func (v *ProjectValidator) ValidateUpdate(updates *model.ProjectUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		return translate(err)
	}
	if updates.StartDate != nil && updates.EndDate != nil && !updates.EndDate.After(*updates.StartDate) {
		return fmt.Errorf("EndDate must be after StartDate")
	}
	return nil
}

func (v *ProjectValidator) ValidateStatusTransition(current, target model.ProjectStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("unknown project status %q", target)
	}
	if !current.CanTransitionTo(target) {
		return fmt.Errorf("cannot transition project from %q to %q", current, target)
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
		case "mongodb":
			messages = append(messages, fmt.Sprintf("%s must be a valid object id", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param()))
		case "gtfield":
			messages = append(messages, fmt.Sprintf("%s must be after %s", field, fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
