package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldErrors 表单字段名 -> 错误提示
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

var registerOnce sync.Once

// UseFormFieldNames 让校验错误使用 form 标签作为字段名
func UseFormFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
}

// ValidationMessages 将绑定错误转换为字段级提示；非校验错误归到 "_form"
func ValidationMessages(err error) FieldErrors {
	out := FieldErrors{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_form"] = "The form could not be read."
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// CheckField 校验单个值，失败时把提示写入 errs[name]
func CheckField(errs FieldErrors, name, value, tag string) {
	UseFormFieldNames()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	err := v.Var(value, tag)
	if err == nil {
		return
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		errs[name] = message(ve[0])
		return
	}
	errs[name] = "Invalid value."
}
