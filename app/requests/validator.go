package requests

import (
	"reflect"
	"strings"
	"sync"

	"gopkg.in/go-playground/validator.v9"
)

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
})

// Validate checks request against its validate tags and returns the json
// names of the failing fields, in declaration order.
func Validate(request interface{}) []string {
	err := validate().Struct(request)

	var failed []string
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []string{err.Error()}
		}
		for _, e := range errs {
			failed = append(failed, e.Field())
		}
	}

	return failed
}
