package accountdelivery

import (
	"github.com/go-petr/flatbank/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidKind validates whether the account kind is supported.
var ValidKind validator.Func = func(fl validator.FieldLevel) bool {
	if k, ok := fl.Field().Interface().(string); ok {
		_, err := domain.ParseKind(k)
		return err == nil
	}
	return false
}
