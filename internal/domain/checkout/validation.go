// internal/domain/checkout/validation.go
package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	cvvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

var fieldMessages = map[string]string{
	"required":   "is required",
	"email":      "must be a valid email address",
	"cardnumber": "must contain between 12 and 19 digits",
	"cvv":        "must be 3 or 4 digits",
	"expiry":     "must use the MM/YY format",
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil functions
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		digits := CardDigits(fl.Field().String())
		return len(digits) >= 12 && len(digits) <= 19
	})
	_ = v.RegisterValidation("cvv", func(fl validator.FieldLevel) bool {
		return cvvPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return v
}

var formValidator = newValidator()

// Validate checks every field and returns a *FormError listing all
// failures, or nil
func (f *Form) Validate() error {
	trimmed := f.normalized()

	err := formValidator.Struct(&trimmed)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return &FormError{Fields: fields}
}

func (f *Form) normalized() Form {
	return Form{
		FirstName:  strings.TrimSpace(f.FirstName),
		LastName:   strings.TrimSpace(f.LastName),
		Email:      strings.TrimSpace(f.Email),
		Phone:      strings.TrimSpace(f.Phone),
		CardNumber: strings.TrimSpace(f.CardNumber),
		CardName:   strings.TrimSpace(f.CardName),
		ExpiryDate: strings.TrimSpace(f.ExpiryDate),
		CVV:        strings.TrimSpace(f.CVV),
		Address:    strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		Region:     strings.TrimSpace(f.Region),
		ZipCode:    strings.TrimSpace(f.ZipCode),
	}
}

// CardDigits strips spaces and dashes from a card number. Any other
// non-digit character makes the number invalid and yields "".
func CardDigits(number string) string {
	var b strings.Builder
	for _, r := range number {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return ""
		}
	}
	return b.String()
}
