package validator

import (
	"testing"

	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *model.PaymentRequest {
	return &model.PaymentRequest{
		UserID:        "user-1",
		Amount:        7500,
		PaymentMethod: model.PaymentMethodWallet,
		Kind:          model.PaymentKindBooking,
	}
}

func TestValidate_Accepts(t *testing.T) {
	v := NewPaymentValidator(logger.Discard())
	for _, method := range supportedMethods {
		req := validRequest()
		req.PaymentMethod = method
		assert.NoError(t, v.Validate(req), method)
	}
}

func TestValidate_Rejects(t *testing.T) {
	v := NewPaymentValidator(logger.Discard())

	tests := []struct {
		name   string
		mutate func(*model.PaymentRequest)
		field  string
	}{
		{"zero amount", func(r *model.PaymentRequest) { r.Amount = 0 }, "Amount"},
		{"negative amount", func(r *model.PaymentRequest) { r.Amount = -1 }, "Amount"},
		{"missing user", func(r *model.PaymentRequest) { r.UserID = "" }, "UserID"},
		{"unknown method", func(r *model.PaymentRequest) { r.PaymentMethod = "bitcoin" }, "PaymentMethod"},
		{"unknown kind", func(r *model.PaymentRequest) { r.Kind = "refund" }, "Kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}
