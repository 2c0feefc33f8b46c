package validator

import (
	"errors"
	"fmt"
	"strings"

	paymentvalidator "smartparking/internal/payments/validator"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/go-playground/validator/v10"
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
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CheckoutValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCheckoutValidator(log *logger.Logger) *CheckoutValidator {
	v := validator.New()

	if err := v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return paymentvalidator.IsSupportedMethod(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'payment_method' validator", "error", err)
	}

	return &CheckoutValidator{
		validate: v,
		logger:   log,
	}
}

func (v *CheckoutValidator) Validate(req *model.CheckoutRequest) error {
	return v.check(req)
}

func (v *CheckoutValidator) ValidateExtend(req *model.CheckoutExtendRequest) error {
	return v.check(req)
}

func (v *CheckoutValidator) check(req any) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "payment_method":
			message = fmt.Sprintf("%s is not a supported payment method", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
