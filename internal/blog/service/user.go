package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

const MaxUsernameLength = 50

type UserService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates an administrator account. Duplicate usernames are
// reported before weak passwords.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Normalise and validate the username
	username = normalizeUsername(username)
	if username == "" {
		return domain.User{}, &FieldError{Field: "username", Message: "Username is required.", Err: ErrInvalidUsername}
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return domain.User{}, &FieldError{Field: "username", Message: "Username must be at most 50 characters long.", Err: ErrInvalidUsername}
	}

	// 2. Reject taken usernames
	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		log.Info("registration rejected, username taken", slog.String("username", username))
		return domain.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	// 3. Enforce the password policy
	if !IsValidPassword(password) {
		return domain.User{}, ErrWeakPassword
	}

	// 4. Hash and insert. The insert is the real uniqueness check, step 2
	// only gives the friendlier ordering of messages.
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().CreateUser(ctx, username, hash, s.now())
	if errors.Is(err, store.ErrAlreadyExists) {
		log.Info("registration lost race, username taken", slog.String("username", username))
		return domain.User{}, ErrUsernameTaken
	}
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Authenticate checks a username and password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	username = normalizeUsername(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("login failed, unknown user", slog.String("username", username))
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash unusable", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
		log.Info("login failed, wrong password", slog.String("username", username))
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// normalizeUsername is applied on both registration and login so the stored
// name and the typed name compare equal.
func normalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

