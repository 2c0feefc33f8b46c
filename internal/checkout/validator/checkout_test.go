package validator

import (
	"testing"
	"time"

	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewCheckoutValidator(logger.Discard())
	start := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

	valid := model.CheckoutRequest{
		SiteID:        "TATU",
		SlotNumber:    "A1",
		VehicleID:     "01A123BC",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		PaymentMethod: model.PaymentMethodApplePay,
	}
	require.NoError(t, v.Validate(&valid))

	tests := []struct {
		name   string
		mutate func(*model.CheckoutRequest)
		field  string
	}{
		{"missing site", func(r *model.CheckoutRequest) { r.SiteID = "" }, "SiteID"},
		{"missing slot", func(r *model.CheckoutRequest) { r.SlotNumber = "" }, "SlotNumber"},
		{"missing vehicle", func(r *model.CheckoutRequest) { r.VehicleID = "" }, "VehicleID"},
		{"missing start", func(r *model.CheckoutRequest) { r.StartTime = time.Time{} }, "StartTime"},
		{"unknown method", func(r *model.CheckoutRequest) { r.PaymentMethod = "iou" }, "PaymentMethod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			var verrs ValidationErrors
			require.ErrorAs(t, v.Validate(&req), &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateExtend(t *testing.T) {
	v := NewCheckoutValidator(logger.Discard())

	assert.NoError(t, v.ValidateExtend(&model.CheckoutExtendRequest{
		NewEndTime:    time.Now(),
		PaymentMethod: model.PaymentMethodWallet,
	}))
	assert.Error(t, v.ValidateExtend(&model.CheckoutExtendRequest{PaymentMethod: model.PaymentMethodWallet}))
	assert.Error(t, v.ValidateExtend(&model.CheckoutExtendRequest{NewEndTime: time.Now()}))
}
