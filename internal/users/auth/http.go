// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/middleware"
	requestutil "github.com/taibuivan/trailhead/internal/platform/request"
	"github.com/taibuivan/trailhead/internal/platform/respond"
)

// # Definitions & Constructors

// CookieOptions configures the session cookie.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

// Handler implements the authentication endpoints under /users.
type Handler struct {
	service *Service
	guard   *Guard
	cookies CookieOptions
	now     func() time.Time
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, guard *Guard, cookies CookieOptions) *Handler {
	return &Handler{service: service, guard: guard, cookies: cookies, now: time.Now}
}

// Register adds the authentication routes to the users router.
//
// # Endpoints
//   - POST  /signup
//   - POST  /login
//   - GET   /logout
//   - POST  /forgotPassword
//   - PATCH /resetPassword/{token}
//   - PATCH /updateMyPassword (protected)
func (handler *Handler) Register(router chi.Router) {
	router.Post("/signup", handler.signup())
	router.Post("/login", handler.login())
	router.Get("/logout", handler.logout)
	router.Post("/forgotPassword", handler.forgotPassword())
	router.Patch("/resetPassword/{token}", handler.resetPassword())

	router.With(middleware.Chain(handler.guard.Protect())).
		Patch("/updateMyPassword", handler.updatePassword())
}

// # Request Payloads

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"password_current"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

/*
Signup opens an account and logs it in.

POST /api/v1/users/signup

Response:
  - 201: Token and user, session cookie set
  - 400: VALIDATION_FAILED
  - 409: CONFLICT: Email already registered
*/
func (handler *Handler) signup() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		var input signupRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			return err
		}

		session, err := handler.service.Signup(request.Context(), SignupInput{
			Name:            input.Name,
			Email:           input.Email,
			Password:        input.Password,
			PasswordConfirm: input.PasswordConfirm,
		})
		if err != nil {
			return err
		}

		handler.sendToken(writer, http.StatusCreated, session)
		return nil
	})
}

/*
Login authenticates a credential pair.

POST /api/v1/users/login

Response:
  - 200: Token and user, session cookie set
  - 400: BAD_REQUEST: Missing email or password
  - 401: INVALID_CREDENTIALS
*/
func (handler *Handler) login() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		var input loginRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			return err
		}

		session, err := handler.service.Login(request.Context(), input.Email, input.Password)
		if err != nil {
			return err
		}

		handler.sendToken(writer, http.StatusOK, session)
		return nil
	})
}

/*
Logout overwrites the session cookie with a short-lived placeholder.

GET /api/v1/users/logout

Description: Tokens are stateless; a token copied elsewhere stays valid
until it expires or the password changes.
*/
func (handler *Handler) logout(writer http.ResponseWriter, _ *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    constants.LoggedOutCookieValue,
		Path:     "/",
		Expires:  handler.now().Add(constants.LoggedOutCookieTTL),
		HttpOnly: true,
		Secure:   handler.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	respond.JSON(writer, http.StatusOK, respond.Envelope{Status: respond.StatusSuccess})
}

/*
ForgotPassword mails a reset link.

POST /api/v1/users/forgotPassword

Response:
  - 200: The same message whether or not the email is registered
  - 500: NOTIFICATION_FAILED
*/
func (handler *Handler) forgotPassword() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		var input forgotPasswordRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			return err
		}

		if err := handler.service.ForgotPassword(request.Context(), input.Email); err != nil {
			return err
		}

		respond.Message(writer, msgResetSent)
		return nil
	})
}

/*
ResetPassword redeems a reset token.

PATCH /api/v1/users/resetPassword/{token}

Response:
  - 200: Token and user, session cookie set
  - 400: INVALID_OR_EXPIRED_TOKEN or VALIDATION_FAILED
*/
func (handler *Handler) resetPassword() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		var input resetPasswordRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			return err
		}

		session, err := handler.service.ResetPassword(request.Context(),
			requestutil.Param(request, FieldToken), input.Password, input.PasswordConfirm)
		if err != nil {
			return err
		}

		handler.sendToken(writer, http.StatusOK, session)
		return nil
	})
}

/*
UpdatePassword changes the password of the logged-in account.

PATCH /api/v1/users/updateMyPassword

Response:
  - 200: Fresh token and user, session cookie set
  - 401: INVALID_CREDENTIALS: Current password is wrong
*/
func (handler *Handler) updatePassword() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		principal, err := requestutil.RequiredPrincipal(request)
		if err != nil {
			return err
		}

		var input updatePasswordRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			return err
		}

		session, err := handler.service.UpdatePassword(request.Context(),
			principal.ID, input.PasswordCurrent, input.Password, input.PasswordConfirm)
		if err != nil {
			return err
		}

		handler.sendToken(writer, http.StatusOK, session)
		return nil
	})
}

// sendToken sets the session cookie and writes the token envelope.
func (handler *Handler) sendToken(writer http.ResponseWriter, statusCode int, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  handler.now().Add(handler.cookies.TTL),
		HttpOnly: true,
		Secure:   handler.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	respond.Token(writer, statusCode, session.Token, map[string]any{"user": session.User})
}
