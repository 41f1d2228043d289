package tripshare

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VerificationCodes persists issued codes and magic link tokens.
type VerificationCodes interface {
	Create(ctx context.Context, record *VerificationCode) error
	CreateTx(ctx context.Context, tx bun.IDB, record *VerificationCode) error

	// Find matches on (email, code, purpose); email comparison is case
	// insensitive. Returns nil without error when nothing matches.
	Find(ctx context.Context, email, code string, purpose VerificationPurpose) (*VerificationCode, error)

	// FindByToken matches on (code, purpose) alone; magic link tokens are
	// long enough to be unique on their own.
	FindByToken(ctx context.Context, token string, purpose VerificationPurpose) (*VerificationCode, error)

	// ConsumeTx deletes the record by id and reports whether this caller won
	// the delete. Exactly one concurrent redeemer observes true.
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (bool, error)

	// DeleteExpired removes records whose expiry is behind the given time
	// and returns how many were swept.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteExpiredFor is the per-address variant, run opportunistically
	// when a fresh secret is issued for that email.
	DeleteExpiredFor(ctx context.Context, email string, before time.Time) (int64, error)
}

type verificationCodes struct {
	db *bun.DB
}

var _ VerificationCodes = (*verificationCodes)(nil)

func NewVerificationCodesRepository(db *bun.DB) VerificationCodes {
	return &verificationCodes{db: db}
}

func (r *verificationCodes) Create(ctx context.Context, record *VerificationCode) error {
	return r.CreateTx(ctx, r.db, record)
}

func (r *verificationCodes) CreateTx(ctx context.Context, tx bun.IDB, record *VerificationCode) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Email = normalizeEmail(record.Email)
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}
	_, err := tx.NewInsert().Model(record).Exec(ctx)
	return err
}

func (r *verificationCodes) Find(ctx context.Context, email, code string, purpose VerificationPurpose) (*VerificationCode, error) {
	record := &VerificationCode{}
	err := r.db.NewSelect().
		Model(record).
		Where("lower(vfc.email) = ?", normalizeEmail(email)).
		Where("vfc.code = ?", code).
		Where("vfc.purpose = ?", purpose).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *verificationCodes) FindByToken(ctx context.Context, token string, purpose VerificationPurpose) (*VerificationCode, error) {
	record := &VerificationCode{}
	err := r.db.NewSelect().
		Model(record).
		Where("vfc.code = ?", token).
		Where("vfc.purpose = ?", purpose).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *verificationCodes) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (bool, error) {
	res, err := tx.NewDelete().
		Model((*VerificationCode)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *verificationCodes) DeleteExpiredFor(ctx context.Context, email string, before time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*VerificationCode)(nil)).
		Where("lower(email) = ?", normalizeEmail(email)).
		Where("expires_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *verificationCodes) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*VerificationCode)(nil)).
		Where("expires_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
