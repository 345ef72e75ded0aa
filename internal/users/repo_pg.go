package users

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `user_id, filled_form, profile_image, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, in UpsertInput) (User, bool, error) {
	const query = `
INSERT INTO users (user_id, filled_form, profile_image, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  filled_form = EXCLUDED.filled_form,
  profile_image = COALESCE(EXCLUDED.profile_image, users.profile_image),
  updated_at = now()
RETURNING ` + userColumns + `, (xmax = 0) AS inserted`
	var user User
	var profileImage sql.NullString
	var inserted bool
	err := r.DB.QueryRowContext(ctx, query,
		in.UserID,
		in.FilledForm,
		nullableString(in.ProfileImage),
	).Scan(
		&user.UserID,
		&user.FilledForm,
		&profileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return User{}, false, errors.Wrap(err, "upsert user")
	}
	if profileImage.Valid {
		user.ProfileImage = profileImage.String
	}
	return user, inserted, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE user_id = $1
LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, errors.Wrap(err, "select user")
	}
	return user, nil
}

func (r *PGRepo) List(ctx context.Context) ([]User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at ASC, user_id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate users")
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var profileImage sql.NullString
	if err := row.Scan(
		&user.UserID,
		&user.FilledForm,
		&profileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return User{}, err
	}
	if profileImage.Valid {
		user.ProfileImage = profileImage.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
