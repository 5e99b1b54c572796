package forms

import (
	"net/url"
	"strings"
)

// Registration is the sign-up form.
type Registration struct {
	Email       string `form:"email_address" validate:"required,min=4,max=150,email"`
	FirstName   string `form:"first_name" validate:"required,max=25"`
	LastName    string `form:"last_name" validate:"required,max=25"`
	Password    string `form:"password" validate:"required,min=8,max=25,bcrypt"`
	HouseNumber string `form:"house_number" validate:"required,max=25"`
	StreetName  string `form:"street_name" validate:"required,max=35"`
	Country     string `form:"country" validate:"required,max=35"`
	PostCode    string `form:"post_code" validate:"required,max=7"`
}

// RegistrationFromValues reads the form fields. Text fields are trimmed;
// the password is kept verbatim.
func RegistrationFromValues(values url.Values) Registration {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }
	return Registration{
		Email:       get("email_address"),
		FirstName:   get("first_name"),
		LastName:    get("last_name"),
		Password:    values.Get("password"),
		HouseNumber: get("house_number"),
		StreetName:  get("street_name"),
		Country:     get("country"),
		PostCode:    get("post_code"),
	}
}

// ValidateRegistration returns the input unchanged when it is valid, or the
// list of field errors.
func ValidateRegistration(in Registration) (Registration, FieldErrors) {
	if errs := check(in); !errs.OK() {
		return Registration{}, errs
	}
	return in, nil
}

// Login is the sign-in form. It is not validated beyond presence so that a
// failed login never reveals which field was wrong.
type Login struct {
	Email    string
	Password string
}

func LoginFromValues(values url.Values) Login {
	return Login{
		Email:    strings.TrimSpace(values.Get("email_address")),
		Password: values.Get("password"),
	}
}

// Complete reports whether both credentials were supplied.
func (l Login) Complete() bool {
	return l.Email != "" && l.Password != ""
}
