package validator

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	initOnce sync.Once

	spaceRun = regexp.MustCompile(`\s+`)
)

// Init registers the custom rules on gin's binding validator.
func Init() {
	initOnce.Do(func() {
		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("not_blank", validateNotBlank)
}

// NormalizeText trims s and collapses whitespace runs to a single space. The
// content itself, markup included, is left untouched.
func NormalizeText(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
