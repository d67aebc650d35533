package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
)

type usersRepo struct{ db dbtx }

func (r *usersRepo) get(ctx context.Context, where string, arg any) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE `+where+` = $1`, arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return r.get(ctx, "id", id)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.get(ctx, "username", username)
}

func (r *usersRepo) CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (domain.User, error) {
	now = now.UTC().Truncate(time.Microsecond)

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
		RETURNING id`,
		username, passwordHash, now,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, store.ErrAlreadyExists
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return domain.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

type postsRepo struct{ db dbtx }

const postColumns = `id, title, content, published_at`

func scanPost(row interface{ Scan(...any) error }) (domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.PublishedAt); err != nil {
		return domain.Post{}, err
	}
	p.PublishedAt = p.PublishedAt.UTC()
	return p, nil
}

func (r *postsRepo) CreatePost(ctx context.Context, title, content string, publishedAt time.Time) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, published_at) VALUES ($1, $2, $3) RETURNING `+postColumns,
		title, content, publishedAt.UTC(),
	))
	if err != nil {
		return domain.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

func (r *postsRepo) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postsRepo) UpdatePost(ctx context.Context, id int64, title, content string) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx,
		`UPDATE posts SET title = $1, content = $2 WHERE id = $3 RETURNING `+postColumns,
		title, content, id,
	))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) DeletePost(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

type sessionsRepo struct{ db dbtx }

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, persistent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.UserID, s.Persistent, s.ExpiresAt.UTC(), s.CreatedAt.UTC(),
	)
	return err
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, persistent, expires_at, created_at
		FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.Persistent, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
