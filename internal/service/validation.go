package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/pkg/catalog"
)

// NewValidator returns a validator that understands spool-specific tags:
// `material` checks the enum and `spooltype` checks the catalog key.
func NewValidator(types *catalog.Catalog) *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("material", func(fl validator.FieldLevel) bool {
		return models.Material(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("spooltype", func(fl validator.FieldLevel) bool {
		if types == nil {
			return true
		}
		return types.Has(fl.Field().String())
	})
	return v
}
