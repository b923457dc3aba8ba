package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/geo-auth-be/internal/auth"
	"github.com/isdelr/geo-auth-be/internal/models"
)

// bcryptmax limits a string to what bcrypt can hash, counted in bytes.
const tagBcryptMax = "bcryptmax"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(tagBcryptMax, func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})
	return v
}

// LocationInput is a client-supplied position. Either coordinate may be
// missing; only a complete pair is ever stored.
type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Complete returns the location when both coordinates are present.
func (l *LocationInput) Complete() (*models.Location, bool) {
	if l == nil || l.Latitude == nil || l.Longitude == nil {
		return nil, false
	}
	return &models.Location{Latitude: *l.Latitude, Longitude: *l.Longitude}, true
}

// SignupInput is the signup request.
type SignupInput struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required"`
	Password string         `json:"password" validate:"required,bcryptmax"`
	Location *LocationInput `json:"location"`
}

// LoginInput is the login request.
type LoginInput struct {
	Email    string         `json:"email" validate:"required"`
	Password string         `json:"password" validate:"required"`
	Location *LocationInput `json:"location"`
}

func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == tagBcryptMax {
				return fmt.Errorf("%w: %w", ErrValidation, ErrPasswordTooLong)
			}
		}
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
