package forms

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// ParseForm reads the posted form. A malformed body maps to a validation
// error so controllers re-render the page instead of failing hard.
func ParseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return nil
}

// Validate runs struct validation and converts failures into field-keyed
// Indonesian messages for the templates.
func Validate(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "Periksa kembali isian Anda.").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Periksa kembali isian Anda.")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Wajib diisi."
	case "min":
		return fmt.Sprintf("Minimal %s karakter.", fe.Param())
	case "max":
		return fmt.Sprintf("Maksimal %s karakter.", fe.Param())
	case "email":
		return "Alamat email tidak valid."
	case "numeric":
		return "Hanya boleh berisi angka."
	case "eqfield":
		return "Konfirmasi tidak cocok."
	}
	return "Isian tidak valid."
}
