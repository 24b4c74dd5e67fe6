package sqlite

import (
	"context"
	"time"

	"github.com/tasknest/tasknest/internal/todo/domain"
)

type tokenRecordsRepo struct {
	db dbtx
}

func (r *tokenRecordsRepo) CreateTokenRecord(ctx context.Context, rec domain.TokenRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO token_records (id, user_id, jti, issued_at, expires_at, active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.JTI, rec.IssuedAt.UTC(), rec.ExpiresAt.UTC(), rec.Active,
	)
	return mapUniqueViolation(err)
}

func (r *tokenRecordsRepo) GetActiveTokenRecord(ctx context.Context, jti string, now time.Time) (domain.TokenRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, jti, issued_at, expires_at, active
		 FROM token_records
		 WHERE jti = ? AND active = 1 AND expires_at > ?`,
		jti, now.UTC(),
	)

	var rec domain.TokenRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.JTI, &rec.IssuedAt, &rec.ExpiresAt, &rec.Active)
	if err != nil {
		return domain.TokenRecord{}, mapNotFound(err)
	}
	rec.IssuedAt = rec.IssuedAt.UTC()
	rec.ExpiresAt = rec.ExpiresAt.UTC()
	return rec, nil
}

func (r *tokenRecordsRepo) DeactivateTokenRecord(ctx context.Context, jti string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE token_records SET active = 0 WHERE jti = ?`, jti)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *tokenRecordsRepo) DeleteExpiredTokenRecords(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM token_records WHERE expires_at <= ?`, now.UTC())
	return err
}
