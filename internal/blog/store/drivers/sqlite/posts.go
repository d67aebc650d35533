package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
)

type postsRepo struct {
	db dbtx
}

func scanPost(row interface{ Scan(...any) error }) (domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.PublishedAt); err != nil {
		return domain.Post{}, err
	}
	p.PublishedAt = p.PublishedAt.UTC()
	return p, nil
}

func (r *postsRepo) CreatePost(ctx context.Context, title, content string, publishedAt time.Time) (domain.Post, error) {
	publishedAt = dbTime(publishedAt)

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, published_at) VALUES (?, ?, ?) RETURNING id`,
		title, content, publishedAt,
	).Scan(&id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("insert post: %w", err)
	}

	return domain.Post{ID: id, Title: title, Content: content, PublishedAt: publishedAt}, nil
}

func (r *postsRepo) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT id, title, content, published_at FROM posts WHERE id = ?`, id))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, published_at FROM posts ORDER BY id ASC`)
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

// UpdatePost does not use RETURNING: SQLite reports no declared type for
// returned columns, so published_at would come back as plain text.
func (r *postsRepo) UpdatePost(ctx context.Context, id int64, title, content string) (domain.Post, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ? WHERE id = ?`,
		title, content, id,
	)
	if err != nil {
		return domain.Post{}, fmt.Errorf("update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Post{}, err
	}
	if n == 0 {
		return domain.Post{}, store.ErrNotFound
	}
	return r.GetPost(ctx, id)
}

func (r *postsRepo) DeletePost(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
