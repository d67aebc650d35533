package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
	"github.com/aussiebroadwan/inkwell/pkg/idx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// IssuedSession is what the client receives after a successful login.
type IssuedSession struct {
	Token      string
	SessionID  string
	Persistent bool
	ExpiresAt  time.Time
}

// ActiveSession is a resolved, still valid session.
type ActiveSession struct {
	SessionID  string
	User       domain.User
	Persistent bool
	ExpiresAt  time.Time
}

// SessionService issues and checks login sessions. A session is valid only
// while both its signed token and its database row are.
type SessionService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string

	SessionTTL  time.Duration
	RememberTTL time.Duration

	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) ttl(remember bool) time.Duration {
	if remember {
		if s.RememberTTL > 0 {
			return s.RememberTTL
		}
		return jwtx.DefaultRememberTTL
	}
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

// Establish starts a session for an authenticated user. remember selects the
// extended expiry class.
func (s *SessionService) Establish(ctx context.Context, user domain.User, remember bool) (IssuedSession, error) {
	log := slogx.FromContext(ctx)
	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.ttl(remember))

	sess := domain.Session{
		ID:         idx.NewAt(now).String(),
		UserID:     user.ID,
		Persistent: remember,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
	}

	// The row only commits once the token naming it is signed.
	var token string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
			return err
		}

		claims := jwtx.NewSessionClaims(user.ID, sess.ID, user.Username, remember, s.Issuer, now, expiresAt.Sub(now))
		signed, err := s.Signer.Sign(claims)
		if err != nil {
			return fmt.Errorf("sign session token: %w", err)
		}
		token = signed
		return nil
	})
	if err != nil {
		return IssuedSession{}, err
	}

	log.Info("session established",
		slog.Int64("user_id", user.ID),
		slog.String("session_id", sess.ID),
		slog.Bool("persistent", remember),
	)

	return IssuedSession{
		Token:      token,
		SessionID:  sess.ID,
		Persistent: remember,
		ExpiresAt:  expiresAt,
	}, nil
}

// Resolve maps a token back to its session. A bad token, a revoked or
// expired row, or a vanished user is ErrSessionInvalid. Database failures are
// returned as they are so callers can tell them apart from a dead session.
func (s *SessionService) Resolve(ctx context.Context, token string) (ActiveSession, error) {
	if token == "" {
		return ActiveSession{}, ErrSessionInvalid
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return ActiveSession{}, errors.Join(ErrSessionInvalid, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return ActiveSession{}, errors.Join(ErrSessionInvalid, err)
	}
	sid, err := idx.Parse(claims.SID)
	if err != nil {
		return ActiveSession{}, errors.Join(ErrSessionInvalid, err)
	}

	sess, err := s.Store.Sessions().GetSession(ctx, sid.String())
	if errors.Is(err, store.ErrNotFound) {
		return ActiveSession{}, ErrSessionInvalid
	}
	if err != nil {
		return ActiveSession{}, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != userID || sess.Expired(s.now()) {
		return ActiveSession{}, ErrSessionInvalid
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ActiveSession{}, ErrSessionInvalid
	}
	if err != nil {
		return ActiveSession{}, fmt.Errorf("load session user: %w", err)
	}

	return ActiveSession{
		SessionID:  sess.ID,
		User:       user,
		Persistent: sess.Persistent,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

// Revoke ends the session named by token. Revoking an unknown or already
// revoked session is not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return nil
	}

	err = s.Store.Sessions().DeleteSession(ctx, claims.SID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	slogx.FromContext(ctx).Info("session revoked", slog.String("session_id", claims.SID))
	return nil
}
