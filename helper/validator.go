package helper

import (
	"reflect"
	"strings"

	"restaurant-directory/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

// Validator checks domain input structs and renders English messages.
type Validator struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

func NewValidator() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &Validator{Validate: validate, Translator: trans}
}

// Struct validates s and returns a *models.ErrorValidation listing every
// failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.Validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return models.NewValidationError("%v", err)
	}

	fields := map[string][]string{}
	var names []string
	for _, fe := range validationErrors {
		if _, seen := fields[fe.Field()]; !seen {
			names = append(names, fe.Field())
		}
		fields[fe.Field()] = append(fields[fe.Field()], fe.Translate(v.Translator))
	}

	return &models.ErrorValidation{
		Message: "Missing or invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}
