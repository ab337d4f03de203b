package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingErrors converts the error of a gin ShouldBind call on obj into
// field errors keyed by the json name of each field.
func BindingErrors(obj interface{}, err error) map[string]string {
	errs := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			name := jsonFieldName(obj, fe.StructField())
			if _, exists := errs[name]; !exists {
				errs[name] = formatValidationError(fe, name)
			}
		}
		return errs
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs[typeErr.Field] = fmt.Sprintf("O campo %s possui um valor inválido.", typeErr.Field)
		return errs
	}

	errs["body"] = "Requisição inválida."
	return errs
}

func jsonFieldName(obj interface{}, structField string) string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	name := strings.Split(f.Tag.Get("json"), ",")[0]
	if name == "" || name == "-" {
		return structField
	}
	return name
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError, name string) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", name)
	case "min":
		return fmt.Sprintf("O campo %s deve ter no mínimo %s caracteres.", name, e.Param())
	case "max":
		return fmt.Sprintf("O campo %s deve ter no máximo %s caracteres.", name, e.Param())
	case "email":
		return fmt.Sprintf("O campo %s deve conter um e-mail válido.", name)
	case "gt":
		return fmt.Sprintf("Selecione um valor válido para o campo %s.", name)
	default:
		return fmt.Sprintf("O campo %s é inválido.", name)
	}
}
