package service

import (
	"testing"

	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	s := newTestStore(t)
	svc := &UserService{Store: s}

	u, err := svc.Register(bg, "  alice  ", "Secret1")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.NotEqual(t, "Secret1", u.PasswordHash)
	require.NoError(t, cryptox.VerifyPassword("Secret1", u.PasswordHash))

	t.Run("duplicate keeps the original hash", func(t *testing.T) {
		_, err := svc.Register(bg, "alice", "Another2")
		require.ErrorIs(t, err, ErrUsernameTaken)
		require.True(t, IsValidation(err))

		stored, err := s.Users().GetUserByUsername(bg, "alice")
		require.NoError(t, err)
		require.Equal(t, u.PasswordHash, stored.PasswordHash)
	})

	t.Run("duplicate is reported before weak password", func(t *testing.T) {
		_, err := svc.Register(bg, "alice", "weak")
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(bg, "bob", "password")
		require.ErrorIs(t, err, ErrWeakPassword)

		n, err := s.Users().CountUsers(bg)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("blank username", func(t *testing.T) {
		_, err := svc.Register(bg, "   ", "Secret1")
		require.ErrorIs(t, err, ErrInvalidUsername)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, "username", fe.Field)
	})
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	svc := &UserService{Store: s}

	registered, err := svc.Register(bg, "carol", "Secret1")
	require.NoError(t, err)

	u, err := svc.Authenticate(bg, "carol", "Secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, u.ID)

	for name, creds := range map[string][2]string{
		"wrong password": {"carol", "Secret2"},
		"unknown user":   {"dave", "Secret1"},
		"empty password": {"carol", ""},
		"empty username": {"", "Secret1"},
		"case differs":   {"Carol", "Secret1"},
		"blank username": {"   ", "Secret1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(bg, creds[0], creds[1])
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	t.Run("username is trimmed like at registration", func(t *testing.T) {
		spaced, err := svc.Register(bg, " erin ", "Secret1")
		require.NoError(t, err)

		for _, typed := range []string{" erin ", "erin", "erin\t"} {
			u, err := svc.Authenticate(bg, typed, "Secret1")
			require.NoError(t, err, "username %q", typed)
			require.Equal(t, spaced.ID, u.ID)
		}
	})
}
