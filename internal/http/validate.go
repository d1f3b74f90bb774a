package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/festory/festory/internal/application"
)

// validate checks request DTOs; field names in error maps come from the json
// struct tags so clients see the names they sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &application.ValidationError{FieldErrors: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		vErr.FieldErrors[fe.Field()] = validationMessage(fe)
	}
	return vErr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 입력 항목입니다."
	case "min":
		return "최소 " + fe.Param() + "자 이상 입력해주세요."
	case "max":
		return "최대 " + fe.Param() + "자까지 입력할 수 있습니다."
	case "email":
		return "이메일 형식이 올바르지 않습니다."
	case "datetime":
		return "날짜 형식은 YYYY-MM-DD 입니다."
	case "gte":
		return fe.Param() + " 이상의 값을 입력해주세요."
	case "oneof":
		return "허용되지 않는 값입니다."
	default:
		return "올바르지 않은 값입니다."
	}
}
