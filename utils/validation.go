package utils

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var registerOnce sync.Once

// IsHHMM reports whether s is a 24h wall-clock time such as "9:00" or "18:30".
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// IsISODate reports whether s is a YYYY-MM-DD calendar date, or an RFC3339
// timestamp whose date part is then used as written.
func IsISODate(s string) bool {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// RegisterValidators adds the "hhmm" and "isodate" tags to gin's binding validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return IsHHMM(fl.Field().String())
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return IsISODate(fl.Field().String())
		})
	})
}

// ValidationMessage flattens validator errors into one readable line.
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "hhmm":
		return fe.Field() + " must be a HH:MM time"
	case "isodate":
		return fe.Field() + " must be a YYYY-MM-DD date"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min", "max", "gte", "lte":
		return fe.Field() + " is out of range"
	default:
		return fe.Field() + " is invalid"
	}
}

// ValidateStruct runs the binding validator over obj and reports failures as InvalidInput.
func ValidateStruct(obj interface{}) error {
	RegisterValidators()
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return InvalidInput("%s", ValidationMessage(err))
	}
	return nil
}
