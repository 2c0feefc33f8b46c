package validator

import (
	"testing"

	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *model.VehicleRequest {
	return &model.VehicleRequest{
		Brand: "Chevrolet",
		Name:  "Cobalt",
		Type:  model.VehicleTypeSedan,
		Plate: "01A123BC",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.VehicleRequest)
		wantField string
	}{
		{name: "valid", mutate: func(*model.VehicleRequest) {}},
		{name: "type is optional", mutate: func(r *model.VehicleRequest) { r.Type = "" }},
		{name: "missing brand", mutate: func(r *model.VehicleRequest) { r.Brand = "" }, wantField: "Brand"},
		{name: "missing plate", mutate: func(r *model.VehicleRequest) { r.Plate = "" }, wantField: "Plate"},
		{name: "plate too long", mutate: func(r *model.VehicleRequest) { r.Plate = "01A123BC01A123BC9" }, wantField: "Plate"},
		{name: "unknown type", mutate: func(r *model.VehicleRequest) { r.Type = "Truck" }, wantField: "Type"},
		{name: "image must be url", mutate: func(r *model.VehicleRequest) { r.Image = "not a url" }, wantField: "Image"},
	}

	v := NewVehicleValidator(logger.Discard())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestValidate_TypeMessageListsChoices(t *testing.T) {
	req := validRequest()
	req.Type = "Truck"

	err := NewVehicleValidator(logger.Discard()).Validate(req)
	assert.ErrorContains(t, err, "Type must be one of: Sedan, SUV, MPV")
}
