package tripshare

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories plus transaction scoping.
type RepositoryManager interface {
	Users() Users
	Itineraries() Itineraries
	VerificationCodes() VerificationCodes

	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
}

type mngr struct {
	db                *bun.DB
	users             Users
	itineraries       Itineraries
	verificationCodes VerificationCodes
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:                db,
		users:             NewUsersRepository(db),
		itineraries:       NewItinerariesRepository(db),
		verificationCodes: NewVerificationCodesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.itineraries == nil {
		return errors.New("repository itineraries should be initialized")
	}

	if m.verificationCodes == nil {
		return errors.New("repository verificationCodes should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Itineraries() Itineraries {
	return m.itineraries
}

func (m mngr) VerificationCodes() VerificationCodes {
	return m.verificationCodes
}
