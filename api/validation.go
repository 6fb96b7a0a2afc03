package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"cotizaciones/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	phone10Regexp = regexp.MustCompile(`^[0-9]{10}$`)
	registerOnce  sync.Once
)

// RegisterValidators 向 gin 的校验引擎注册自定义规则，可重复调用
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if m, ok := field.Interface().(models.Money); ok {
				f, _ := m.Float64()
				return f
			}
			return nil
		}, models.Money{})
		_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return phone10Regexp.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// validationMessages 将校验错误转换为西班牙语提示列表
// 非 validator 错误（如 JSON 格式错误）返回 nil
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s es obligatorio", field)
	case "email":
		return fmt.Sprintf("%s debe ser un correo electrónico válido", field)
	case "phone10":
		return fmt.Sprintf("%s debe tener 10 dígitos numéricos", field)
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s no debe exceder %s caracteres", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%s no es válido", field)
	}
}
