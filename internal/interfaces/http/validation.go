package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "beatrush/internal/domain/purchase/valueobjects"
)

// registerValidations attaches domain validation rules to gin's binding
// validator so malformed requests fail at the transport boundary.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// currency: ISO 4217 code the store sells in. Empty passes binding and
	// defaults to USD downstream.
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return vo.NewMoney(0, fl.Field().String()).HasSupportedCurrency()
	})
}
