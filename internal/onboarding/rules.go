package onboarding

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	expiryPattern   = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

// UsernameForm is the first step
type UsernameForm struct {
	Username string `json:"username" validate:"required,min=3,max=20,username"`
}

// CredentialsForm is the second step; submitting it signs the user up
type CredentialsForm struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=32,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ProfileForm is the public page step
type ProfileForm struct {
	Name            string `json:"name" validate:"required,min=1,max=50"`
	About           string `json:"about" validate:"max=500"`
	AvatarImage     string `json:"avatarImage" validate:"omitempty,url"`
	SocialMediaURL  string `json:"socialMediaUrl" validate:"omitempty,url"`
	BackgroundImage string `json:"backgroundImage" validate:"omitempty,url"`
	SuccessMessage  string `json:"successMessage" validate:"max=500"`
}

// PaymentForm is the payout card step
type PaymentForm struct {
	Country     string `json:"country" validate:"required"`
	FirstName   string `json:"firstname" validate:"required,min=1,max=50"`
	LastName    string `json:"lastname" validate:"required,min=1,max=50"`
	CardNumber  string `json:"cardNumber" validate:"required,numeric,min=13,max=19"`
	ExpiryMonth string `json:"expiryMonth" validate:"required,numeric,len=2"`
	ExpiryYear  string `json:"expiryYear" validate:"required,numeric,len=2"`
	CVC         string `json:"cvc" validate:"required,numeric,min=3,max=4"`
}

// ExpiryDate joins month and year as MM/YY, the format the API stores
func (p PaymentForm) ExpiryDate() string {
	return p.ExpiryMonth + "/" + p.ExpiryYear
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name, matching the API's field errors
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// strongPassword wants at least one upper-case letter, one lower-case letter and one digit
func strongPassword(s string) bool {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

var messages = map[string]string{
	"required":       "This field is required",
	"min":            "Too short",
	"max":            "Too long",
	"len":            "Wrong length",
	"email":          "Enter a valid email address",
	"url":            "Enter a valid URL",
	"numeric":        "Digits only",
	"eqfield":        "Passwords do not match",
	"username":       "Letters, digits and underscores only",
	"strongpassword": "Use upper-case, lower-case letters and a digit",
	"expiry":         "Use MM/YY",
}

// fieldErrors flattens validator output into field -> message
func fieldErrors(err error) FieldErrors {
	out := FieldErrors{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out[""] = err.Error()
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}
