package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and expose sub-repositories per record type. Repositories
// are only reachable through a Store or a Tx so nested transactions cannot
// be started by accident.
type Store interface {
	Users() Users
	Posts() Posts
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is an exact, case-sensitive match.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts the user and returns it with its assigned id.
	// A username that already exists yields ErrAlreadyExists; the check and
	// the insert are a single statement.
	CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (domain.User, error)

	// CountUsers is reported by the migrate and useradd commands.
	CountUsers(ctx context.Context) (int, error)
}

type Posts interface {
	CreatePost(ctx context.Context, title, content string, publishedAt time.Time) (domain.Post, error)
	GetPost(ctx context.Context, id int64) (domain.Post, error)

	// ListPosts returns every post in ascending id order.
	ListPosts(ctx context.Context) ([]domain.Post, error)

	// UpdatePost replaces title and content. id and published_at are kept.
	UpdatePost(ctx context.Context, id int64, title, content string) (domain.Post, error)

	DeletePost(ctx context.Context, id int64) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions whose expiry is at or before now.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
