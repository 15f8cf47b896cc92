// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/notify"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/platform/validate"
	"github.com/taibuivan/trailhead/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Sign(subjectID string, timeToLive time.Duration) (string, error)
	Verify(token string) (subjectID string, issuedAt time.Time, err error)
}

// Options tunes a [Service].
type Options struct {
	// TokenTTL is the lifetime of issued session tokens.
	TokenTTL time.Duration

	// PublicURL prefixes the links sent by mail.
	PublicURL string

	// PasswordCost overrides the bcrypt cost. Zero uses [sec.PasswordCost].
	PasswordCost int

	// Clock overrides [time.Now].
	Clock func() time.Time
}

// Service implements the identity use cases.
type Service struct {
	users     UserRepository
	tokens    TokenIssuer
	mailer    notify.Mailer
	logger    *slog.Logger
	tokenTTL  time.Duration
	publicURL string
	cost      int
	now       func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	tokens TokenIssuer,
	mailer notify.Mailer,
	logger *slog.Logger,
	options Options,
) *Service {
	service := &Service{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		logger:    logger,
		tokenTTL:  options.TokenTTL,
		publicURL: strings.TrimRight(options.PublicURL, "/"),
		cost:      options.PasswordCost,
		now:       options.Clock,
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// Session is an issued token together with its subject.
type Session struct {
	Token string
	User  *User
}

// # Registration Flow

// SignupInput holds the data required to open an account.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Photo           string
}

/*
Signup validates, hashes, and persists a new account, then logs it in.

Description: New accounts always receive the "user" role. The welcome mail
is best-effort: a delivery failure is logged and the signup still succeeds.

Returns:
  - *Session: Token for the new account
  - err: ValidationFailed, Conflict on a taken email, or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Session, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, NameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)
	checkPassword(validator, input.Password, input.PasswordConfirm)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password, service.cost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Photo:        input.Photo,
		Role:         sec.RoleUser,
		PasswordHash: hash,
	}
	if user.Photo == "" {
		user.Photo = DefaultPhoto
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	welcome := notify.Message{
		Kind: notify.KindWelcome,
		To:   notify.Recipient{Name: user.Name, Email: user.Email},
		URL:  service.publicURL + AccountPath,
	}
	if err := service.mailer.Send(context, welcome); err != nil {
		service.logger.WarnContext(context, "welcome_mail_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return service.issue(user)
}

// # Authentication Flow

/*
Login checks a credential pair and issues a session token.

Description: An unknown email and a wrong password produce the same error,
so the response does not reveal which accounts exist.
*/
func (service *Service) Login(context context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.BadRequest("Please provide email and password")
	}

	user, err := service.users.FindByEmail(context, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_failed: %w", err)
	}

	if user == nil || !sec.PasswordMatches(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	return service.issue(user)
}

/*
Authenticate verifies a session token and resolves its principal.

Returns:
  - *sec.Principal: The current identity of the subject
  - err: InvalidToken, Expired, SubjectGone or CredentialsChanged
*/
func (service *Service) Authenticate(context context.Context, token string) (*sec.Principal, error) {
	subjectID, issuedAt, err := service.tokens.Verify(token)
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return nil, apperr.Expired()
	case err != nil:
		return nil, apperr.InvalidToken().WithCause(err)
	}

	user, err := service.users.FindByID(context, subjectID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_authenticate_failed: %w", err)
	}
	if user == nil {
		return nil, apperr.SubjectGone()
	}

	if user.ChangedPasswordAfter(issuedAt) {
		return nil, apperr.CredentialsChanged()
	}

	return user.Principal(issuedAt), nil
}

// # Password Recovery

/*
ForgotPassword starts a reset for the account registered under email.

Description: A random token is generated and only its digest is stored. The
plaintext travels in the mailed link. When delivery fails the stored reset
state is cleared again and NotificationFailed is returned.

An unknown email succeeds silently so that the endpoint cannot be used to
enumerate accounts.
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByEmail(context, strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("auth_service_forgot_password_failed: %w", err)
	}
	if user == nil {
		service.logger.InfoContext(context, "password_reset_unknown_email")
		return nil
	}

	token, err := sec.GenerateSecureToken(constants.ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	expires := service.now().Add(constants.ResetTokenTTL)
	if err := service.users.SetResetToken(context, user.ID, sec.HashToken(token), expires); err != nil {
		return fmt.Errorf("auth_service_reset_store_failed: %w", err)
	}

	message := notify.Message{
		Kind: notify.KindPasswordReset,
		To:   notify.Recipient{Name: user.Name, Email: user.Email},
		URL:  service.publicURL + ResetPath + token,
	}
	if err := service.mailer.Send(context, message); err != nil {
		service.logger.ErrorContext(context, "password_reset_mail_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)

		if clearErr := service.users.ClearResetToken(context, user.ID); clearErr != nil {
			service.logger.ErrorContext(context, "password_reset_rollback_failed",
				slog.String("user_id", user.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		return apperr.NotificationFailed(err)
	}

	return nil
}

/*
ResetPassword redeems a reset token and logs the account in.

Returns:
  - *Session: Fresh token for the account
  - err: ValidationFailed, or InvalidOrExpiredToken when the token is
    unknown, expired or already used
*/
func (service *Service) ResetPassword(context context.Context, token, password, passwordConfirm string) (*Session, error) {
	validator := &validate.Validator{}
	checkPassword(validator, password, passwordConfirm)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(password, service.cost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := service.now()
	user, err := service.users.ConsumeResetToken(context, sec.HashToken(token), now, hash, stamp(now))
	if err != nil {
		return nil, fmt.Errorf("auth_service_reset_password_failed: %w", err)
	}
	if user == nil {
		return nil, apperr.InvalidOrExpiredToken()
	}

	return service.issue(user)
}

/*
UpdatePassword changes the password of an authenticated account.

Description: The current password is re-verified first. Tokens issued before
the change stop verifying, so a fresh one is returned.
*/
func (service *Service) UpdatePassword(context context.Context, userID, current, password, passwordConfirm string) (*Session, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_update_password_failed: %w", err)
	}
	if user == nil {
		return nil, apperr.SubjectGone()
	}

	if !sec.PasswordMatches(current, user.PasswordHash) {
		return nil, apperr.WrongPassword()
	}

	validator := &validate.Validator{}
	checkPassword(validator, password, passwordConfirm)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(password, service.cost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	changedAt := stamp(service.now())
	if err := service.users.UpdatePassword(context, user.ID, hash, changedAt); err != nil {
		return nil, fmt.Errorf("auth_service_update_password_failed: %w", err)
	}
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt

	return service.issue(user)
}

// # Helpers

// issue signs a token for user.
func (service *Service) issue(user *User) (*Session, error) {
	token, err := service.tokens.Sign(user.ID, service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

// stamp is the password_changed_at value for a change made at now. It is
// backdated so a token issued in the same second still verifies.
func stamp(now time.Time) time.Time {
	return now.Add(-constants.PasswordChangeSkew)
}

// checkPassword applies the password rules to a new password and its confirmation.
func checkPassword(validator *validate.Validator, password, confirm string) {
	validator.Required(FieldPassword, password).
		MinLen(FieldPassword, password, PasswordMinLength).
		Required(FieldPasswordConfirm, confirm).
		Custom(FieldPasswordConfirm, confirm != "" && confirm != password, msgPasswordsDiffer)
}
