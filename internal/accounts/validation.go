package accounts

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// PasswordRules is shown to users before they pick a password.
const PasswordRules = "Password must contain:\n" +
	" - One uppercase letter\n" +
	" - One lowercase letter\n" +
	" - One digit\n" +
	" - Minimum 8 characters long."

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+\.[A-Za-z0-9.-]+$`)

var (
	ErrInvalidEmail     = fmt.Errorf("invalid email address: %w", common.ErrorValidation)
	ErrWeakPassword     = fmt.Errorf("password must contain at least one uppercase letter, one lowercase letter, one digit, and be at least %d characters long: %w", MinPasswordLength, common.ErrorValidation)
	ErrPasswordMismatch = fmt.Errorf("passwords do not match: %w", common.ErrorValidation)
)

// Signup is the input of Directory.Create.
type Signup struct {
	Email    string `validate:"required,recipeemail"`
	Password string `validate:"required,strongpassword"`
	Confirm  string `validate:"eqfield=Password"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("recipeemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

// IsValidEmail reports whether email has the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword checks the signup password rules.
func IsStrongPassword(password string) bool {
	var upper, lower, digit bool
	n := 0
	for _, r := range password {
		n++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return n >= MinPasswordLength && upper && lower && digit
}

// validationError maps validator output onto the package sentinels.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%v: %w", err, common.ErrorValidation)
	}
	switch fe := verrs[0]; fe.Field() {
	case "Email":
		return ErrInvalidEmail
	case "Password":
		return ErrWeakPassword
	case "Confirm":
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("field %s failed %s: %w", fe.Field(), fe.Tag(), common.ErrorValidation)
	}
}
