package tripshare

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users exposes account persistence. Registration is always lazy, driven by
// a successful verification redemption.
type Users interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	// GetOrRegisterTx resolves the account for an email address, creating it
	// on first login. Existing accounts get their last login stamped.
	GetOrRegisterTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	ListAll(ctx context.Context) ([]*User, error)
	First(ctx context.Context) (*User, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

// Custom methods shadow same-name methods of the embedded generic
// repository, so only the narrow Users contract is asserted here.
var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

// GetByEmailTx resolves an account by its identifier column. Emails are
// stored lowercased, so the normalized lookup is effectively case
// insensitive.
func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.Repository.GetByIdentifierTx(ctx, tx, normalizeEmail(email))
}

func (a *users) GetOrRegisterTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	email = normalizeEmail(email)
	now := time.Now()

	user, err := a.GetByEmailTx(ctx, tx, email)
	if err == nil {
		user.LastLoginAt = &now
		if _, err := tx.NewUpdate().
			Model(user).
			Column("last_login_at").
			WherePK().
			Exec(ctx); err != nil {
			return nil, err
		}
		return user, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	user = &User{
		ID:          deterministicUserID(email),
		Email:       email,
		CreatedAt:   &now,
		LastLoginAt: &now,
	}

	// The deterministic id plus the unique email column make concurrent
	// first-logins converge on a single row instead of racing to create two.
	if _, err := tx.NewInsert().
		Model(user).
		On("CONFLICT (email) DO UPDATE").
		Set("last_login_at = EXCLUDED.last_login_at").
		Exec(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

func (a *users) ListAll(ctx context.Context) ([]*User, error) {
	var records []*User
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *users) First(ctx context.Context) (*User, error) {
	user := &User{}
	err := a.db.NewSelect().
		Model(user).
		Order("created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *users) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	_, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("display_name = ?", strings.TrimSpace(displayName)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (a *users) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// deterministicUserID derives the account id from the email so that two
// racing registrations for the same address mint the same primary key.
func deterministicUserID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}
