package course

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/elimu/core"
)

var (
	courseLevelTag  = "courselevel"
	courseLevelText = "invalid level"
)

// InitValidators registers the package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(courseLevelTag, courseLevelValidation)
	core.RegisterCustomTranslation(validate, translator, courseLevelTag, courseLevelText)
}

// courseLevelValidation checks that the provided level is in AllLevels
func courseLevelValidation(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	for _, l := range AllLevels {
		if level == l {
			return true
		}
	}
	return false
}
