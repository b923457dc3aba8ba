package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/geo-auth-be/internal/auth"
	"github.com/isdelr/geo-auth-be/internal/models"
	"github.com/isdelr/geo-auth-be/internal/services"
	"github.com/rs/zerolog/log"
)

// Client-facing messages. Internal failures all share msgServerError.
const (
	msgMissingFields      = "All fields are required"
	msgUserExists         = "User already exists"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgInvalidCredentials = "Invalid email or password"
	msgServerError        = "Something went wrong!"
	msgSignupOK           = "Signup successful!"
	msgLoginOK            = "Login successful!"
)

// UserHandler handles HTTP requests for signup, login and the current user.
type UserHandler struct {
	service      services.UserServiceProvider
	secureCookie bool
}

// NewUserHandler creates a new UserHandler. secureCookie sets the Secure flag
// on the session cookie and should be true in production.
func NewUserHandler(service services.UserServiceProvider, secureCookie bool) *UserHandler {
	return &UserHandler{service: service, secureCookie: secureCookie}
}

type signupResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

type loginResponse struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload services.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	user, err := h.service.Signup(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, msgPasswordTooLong)
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, msgMissingFields)
		case errors.Is(err, services.ErrDuplicateUser):
			writeError(w, http.StatusBadRequest, msgUserExists)
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("[SIGNUP] Failed to register user")
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User signed up")
	writeJSON(w, http.StatusCreated, signupResponse{Message: msgSignupOK, User: user})
}

// Login handles user authentication and sets the session cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	res, err := h.service.Login(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, msgMissingFields)
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeError(w, http.StatusBadRequest, msgInvalidCredentials)
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("[LOGIN] Failed to log in user")
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    res.Token,
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, loginResponse{Message: msgLoginOK, User: res.User})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Warn().Str("user_id", claims.UserID).Msg("User from token not found")
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user from token")
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
