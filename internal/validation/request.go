package validation

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shipcli/internal/errors"
	"shipcli/pkg/contracts/domain"
)

var validate = validator.New()

// ValidateRequest checks a request struct against its validate tags. Every
// violated field is listed in the error message and under the "fields"
// context key.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewAppValidationError(err.Error())
	}

	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		msgs = append(msgs, describe(fe))
	}

	return errors.NewAppValidationError("invalid request: "+strings.Join(msgs, "; ")).
		WithContext("fields", fields)
}

// ValidatePeriod checks that p is a canonical YYYY-MM period
func ValidatePeriod(p string) error {
	if err := validate.Var(p, "required,datetime="+domain.PeriodLayout); err != nil {
		return errors.NewAppValidationError(fmt.Sprintf("period %q is not in YYYY-MM form", p))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s %q does not match layout %s", fe.Field(), fe.Value(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of [%s]", fe.Field(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
}
