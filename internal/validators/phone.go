package validators

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

var (
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	phoneStripper = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// CleanPhone drops the separators people type into phone numbers.
func CleanPhone(raw string) string {
	return phoneStripper.Replace(strings.TrimSpace(raw))
}

func IsPhone(raw string) bool {
	return phoneRegex.MatchString(CleanPhone(raw))
}

// NormalizePhone returns the E.164 form when the number is valid for region,
// otherwise the cleaned input.
func NormalizePhone(raw, region string) string {
	cleaned := CleanPhone(raw)
	if cleaned == "" {
		return ""
	}

	num, err := phonenumbers.Parse(cleaned, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return cleaned
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// New returns a validator that knows the "phone" rule and reports fields by
// their json name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// ToBusiness turns the first validator failure into a validation error with
// code missing_<field> or invalid_<field>.
func ToBusiness(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Field()
	if fe.Tag() == "required" {
		return httperr.Validation("missing_"+field, field, field+" is required")
	}
	return httperr.Validation("invalid_"+field, field, field+" failed the "+fe.Tag()+" rule")
}
