package userdetails

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// PGRepo stores resumeData in a json column, which keeps the text as sent.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, userID string, data json.RawMessage) (UserDetails, bool, error) {
	const query = `
INSERT INTO user_details (user_id, resume_data, created_at, updated_at)
VALUES ($1, $2::json, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  resume_data = EXCLUDED.resume_data,
  updated_at = now()
RETURNING user_id, resume_data, created_at, updated_at, (xmax = 0) AS inserted`
	var rec UserDetails
	var stored []byte
	var inserted bool
	err := r.DB.QueryRowContext(ctx, query, userID, string(cloneData(data))).Scan(
		&rec.UserID,
		&stored,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return UserDetails{}, false, errors.Wrap(err, "upsert user details")
	}
	rec.ResumeData = cloneData(stored)
	return rec, inserted, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (UserDetails, error) {
	const query = `
SELECT user_id, resume_data, created_at, updated_at
FROM user_details
WHERE user_id = $1
LIMIT 1`
	var rec UserDetails
	var stored []byte
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&rec.UserID,
		&stored,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserDetails{}, ErrNotFound
		}
		return UserDetails{}, errors.Wrap(err, "select user details")
	}
	rec.ResumeData = cloneData(stored)
	return rec, nil
}
