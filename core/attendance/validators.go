package attendance

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/attendance/core"
)

var (
	statusTag  = "attendancestatus"
	statusText = "{0} must be one of " + strings.Join(statusNames(), ", ")

	requiredText = "this field is required"
)

// InitValidators registers the attendance validators. core.InitValidators must be called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).IsValid()
}

func statusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}
