package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-bff/internal/domain"
)

type postgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool, now: time.Now}
}

func (s *postgresStore) Create(ctx context.Context, sess domain.Session) error {
	const q = `
INSERT INTO sessions (token, user_id, username, signed_key, expires_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := s.pool.Exec(ctx, q, sess.Token, sess.UserID, sess.Username, sess.Key, sess.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *postgresStore) Lookup(ctx context.Context, token string) (*domain.Session, error) {
	const q = `
SELECT token, user_id, username, signed_key, expires_at, created_at
FROM sessions
WHERE token = $1
LIMIT 1
`
	var sess domain.Session
	if err := s.pool.QueryRow(ctx, q, token).Scan(
		&sess.Token,
		&sess.UserID,
		&sess.Username,
		&sess.Key,
		&sess.ExpiresAt,
		&sess.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if Expired(sess, s.now()) {
		_ = s.Delete(ctx, token)
		return nil, nil
	}
	return &sess, nil
}

func (s *postgresStore) Delete(ctx context.Context, token string) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
