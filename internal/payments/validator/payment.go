package validator

import (
	"errors"
	"fmt"
	"strings"

	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/go-playground/validator/v10"
)

var supportedMethods = []string{
	model.PaymentMethodWallet,
	model.PaymentMethodCash,
	model.PaymentMethodCreditCard,
	model.PaymentMethodPayPal,
	model.PaymentMethodApplePay,
	model.PaymentMethodGooglePay,
}

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

type PaymentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPaymentValidator(log *logger.Logger) *PaymentValidator {
	v := validator.New()

	if err := v.RegisterValidation("payment_method", validateMethod); err != nil {
		log.Fatal("Failed to register 'payment_method' validator", "error", err)
	}

	return &PaymentValidator{
		validate: v,
		logger:   log,
	}
}

// IsSupportedMethod reports whether method is one of the accepted payment methods.
func IsSupportedMethod(method string) bool {
	for _, m := range supportedMethods {
		if m == method {
			return true
		}
	}
	return false
}

func validateMethod(fl validator.FieldLevel) bool {
	return IsSupportedMethod(fl.Field().String())
}

func (v *PaymentValidator) Validate(req *model.PaymentRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *PaymentValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "payment_method":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(supportedMethods, ", "))
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
