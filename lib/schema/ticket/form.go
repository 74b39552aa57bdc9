// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// CreateTicketForm is the body of a ticket creation request.
type CreateTicketForm struct {
	Title            string      `json:"title"            validate:"required,notblank,max=200"`
	Description      string      `json:"description"      validate:"required,notblank"`
	RequestType      RequestType `json:"requestType"      validate:"required,requesttype"`
	Priority         Priority    `json:"priority"         validate:"required,priority"`
	RequestedDataset string      `json:"requestedDataset,omitempty"`

	// Requester is filled from the session, never from user input.
	Requester *UserRef `json:"requester,omitempty" validate:"required"`
}

// UserRef is the {"id": N} reference the service expects wherever a
// request names a user.
type UserRef struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// NewCreateTicketForm returns a form with the default request type
// (ACCESS) and priority (LOW) preselected.
func NewCreateTicketForm() CreateTicketForm {
	return CreateTicketForm{
		RequestType: RequestAccess,
		Priority:    PriorityLow,
	}
}

// Normalize trims text fields and canonicalizes enumerations.
func (f *CreateTicketForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.RequestedDataset = strings.TrimSpace(f.RequestedDataset)
	f.RequestType = f.RequestType.Canonical()
	f.Priority = f.Priority.Canonical()
}

// Validate reports the first problem that blocks submission.
func (f *CreateTicketForm) Validate() error { return validateForm(f) }

// RegisterForm is the body of a user registration request.
type RegisterForm struct {
	Name     string `json:"name"     validate:"required,notblank"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role"     validate:"required,role"`
}

// Validate reports the first problem that blocks submission.
func (f *RegisterForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if f.Role == "" {
		f.Role = RoleRequester
	}
	f.Role = f.Role.Canonical()
	return validateForm(f)
}

// LoginForm is the body of a login request.
type LoginForm struct {
	Email    string `json:"email"    validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// Validate reports the first problem that blocks submission.
func (f *LoginForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return validateForm(f)
}

// CommentForm is the body of an add-comment request.
type CommentForm struct {
	Comment    string     `json:"comment"    validate:"required,notblank"`
	Visibility Visibility `json:"visibility" validate:"required,oneof=internal requester"`
}

// DefaultVisibility returns the visibility a new comment gets when the
// author does not choose: internal for staff, requester-facing for the
// requester.
func DefaultVisibility(role Role) Visibility {
	if role.Is(RoleRequester) {
		return VisibilityRequester
	}
	return VisibilityInternal
}

// Validate reports the first problem that blocks submission.
func (f *CommentForm) Validate() error {
	f.Comment = strings.TrimSpace(f.Comment)
	return validateForm(f)
}

// FormError lists every problem found in a form. Error returns only
// the first so it fits on a single status line.
type FormError struct {
	Problems []string
}

func (e *FormError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid form"
	}
	return e.Problems[0]
}

var (
	formValidator *validator.Validate
	validatorOnce sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(initValidator)
	return formValidator
}

func initValidator() {
	formValidator = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match what users
	// see in flags and files.
	formValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	mustRegister("notblank", func(level validator.FieldLevel) bool {
		return strings.TrimSpace(level.Field().String()) != ""
	})
	mustRegister("role", func(level validator.FieldLevel) bool {
		_, err := ParseRole(level.Field().String())
		return err == nil
	})
	mustRegister("priority", func(level validator.FieldLevel) bool {
		_, err := ParsePriority(level.Field().String())
		return err == nil
	})
	mustRegister("requesttype", func(level validator.FieldLevel) bool {
		_, err := ParseRequestType(level.Field().String())
		return err == nil
	})
}

func mustRegister(tag string, function validator.Func) {
	if err := formValidator.RegisterValidation(tag, function); err != nil {
		panic(fmt.Sprintf("registering %q validation: %v", tag, err))
	}
}

func validateForm(form any) error {
	err := getValidator().Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		problems = append(problems, describeFieldError(fieldError))
	}
	return &FormError{Problems: problems}
}

func describeFieldError(fieldError validator.FieldError) string {
	field := fieldError.Field()
	switch fieldError.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
	case "gt":
		return field + " must be set"
	case "role", "priority":
		return fmt.Sprintf("%s %q is not a known %s", field, fieldError.Value(), fieldError.Tag())
	case "requesttype":
		return fmt.Sprintf("%s %q is not a known request type", field, fieldError.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
	}
	return fieldError.Error()
}
