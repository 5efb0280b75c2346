package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"blog-api/pkg/utils"
)

var registerOnce sync.Once

// RegisterValidators 注册到 gin 的 validator 引擎，只执行一次
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
			return utils.StrongPassword(fl.Field().String())
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, fe.Param())
	case "strongpwd":
		return f + " must be 8-100 characters and contain upper and lower case letters, a digit and a special character"
	case "eqfield":
		return fmt.Sprintf("%s must match %s", f, fe.Param())
	}
	return fmt.Sprintf("%s failed the %q rule", f, fe.Tag())
}

// FieldErrors 把绑定错误转成面向客户端的字段消息
func FieldErrors(err error) []string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := make([]string, 0, len(ves))
		for _, fe := range ves {
			out = append(out, fieldMessage(fe))
		}
		return out
	}
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return []string{"request body is required"}
	case errors.As(err, &syn):
		return []string{"malformed JSON body"}
	case errors.As(err, &typ):
		return []string{fmt.Sprintf("%s has the wrong type", typ.Field)}
	}
	return []string{err.Error()}
}
