// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation checks membership and admin form input before it is
// forwarded to the association API, so obvious mistakes get a friendly
// message instead of a round trip.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Roles assignable when an administrator creates an account.
var assignableRoles = map[string]bool{
	"student": true,
	"admin":   true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Field names reported to users come from the form tag.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is the membership registration form.
type RegisterForm struct {
	Name     string `form:"name" validate:"required,min=2,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,max=128"`
}

// ProfileForm updates the signed-in member's own details.
type ProfileForm struct {
	Name string `form:"name" validate:"required,min=2,max=100"`
}

// AdminUserForm is the admin "add member" form.
type AdminUserForm struct {
	Name     string `form:"name" validate:"required,min=2,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,max=128"`
	Role     string `form:"role" validate:"required"`
}

// ContactForm is the public contact form.
type ContactForm struct {
	Name    string `form:"name" validate:"required,min=2,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Message string `form:"message" validate:"required,min=10,max=5000"`
}

// Check validates a form struct and returns per-field error messages
// keyed by form field name. An empty map means the form is valid.
func Check(form any) map[string]string {
	errs := make(map[string]string)

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs["form"] = "Invalid form submission"
			return errs
		}
		for _, fe := range verrs {
			errs[fe.Field()] = message(fe)
		}
	}

	if f, ok := form.(*AdminUserForm); ok && f.Role != "" && !assignableRoles[f.Role] {
		errs["role"] = "Role must be student or admin"
	}

	return errs
}

// message maps a validation failure to a user-facing sentence.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		if fe.Field() == "password" {
			return "Password must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	default:
		return "Invalid value"
	}
}
