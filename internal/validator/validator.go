package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stcolombus/campus-portal/internal/model"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations and the enum tags
// from model.EnumTags on Gin's binding engine. Call once during application startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	// Use JSON (or form) tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("form")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	for _, enum := range model.EnumTags {
		registerEnum(v, enum)
	}
}

func registerEnum(v *govalidator.Validate, enum model.EnumTag) {
	_ = v.RegisterValidation(enum.Tag, func(fl govalidator.FieldLevel) bool {
		return enum.Contains(fl.Field().String())
	})

	msg := fmt.Sprintf("{0} must be one of: %s", strings.Join(enum.Values, ", "))
	_ = v.RegisterTranslation(enum.Tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(enum.Tag, msg, true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			t, _ := ut.T(enum.Tag, fe.Field())
			return t
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the JSON request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindForm binds and validates a multipart or urlencoded form into dst.
func BindForm(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindWith(dst, binding.Form); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
