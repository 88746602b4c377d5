package snapshot

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

var (
	processTag  = "process"
	processText = "unknown process type"

	statusTag  = "status"
	statusText = "{0} is not a known status"
)

// InitValidators registers the process & status validators against the processes of reg.
func InitValidators(validate *validator.Validate, translator ut.Translator, reg *lifecycle.Registry) {
	_ = validate.RegisterValidation(processTag, func(fl validator.FieldLevel) bool {
		return reg.Has(lifecycle.ParseProcessType(fl.Field().String()))
	})
	core.RegisterCustomTranslation(validate, translator, processTag, processText)

	known := make(map[lifecycle.Status]bool)
	for _, pt := range reg.Types() {
		statuses, _ := reg.StatusOrder(pt)
		for _, st := range statuses {
			known[st] = true
		}
	}
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return known[lifecycle.ParseStatus(fl.Field().String())]
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

// Validate cleans & validates qf.
func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Clean()
	return validate.Struct(qf)
}
