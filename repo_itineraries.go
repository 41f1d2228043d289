package tripshare

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Itineraries persists trip records.
type Itineraries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Itinerary, error)
	ListPublished(ctx context.Context) ([]*Itinerary, error)
	ListAll(ctx context.Context) ([]*Itinerary, error)
	Create(ctx context.Context, record *Itinerary) (*Itinerary, error)
	Update(ctx context.Context, record *Itinerary) (*Itinerary, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type itineraries struct {
	db *bun.DB
}

var _ Itineraries = (*itineraries)(nil)

func NewItinerariesRepository(db *bun.DB) Itineraries {
	return &itineraries{db: db}
}

func (r *itineraries) GetByID(ctx context.Context, id uuid.UUID) (*Itinerary, error) {
	record := &Itinerary{}
	err := r.db.NewSelect().
		Model(record).
		Where("itn.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *itineraries) ListPublished(ctx context.Context) ([]*Itinerary, error) {
	var records []*Itinerary
	err := r.db.NewSelect().
		Model(&records).
		Where("itn.is_published = ?", true).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *itineraries) ListAll(ctx context.Context) ([]*Itinerary, error) {
	var records []*Itinerary
	err := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *itineraries) Create(ctx context.Context, record *Itinerary) (*Itinerary, error) {
	now := time.Now()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	record.UpdatedAt = &now

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *itineraries) Update(ctx context.Context, record *Itinerary) (*Itinerary, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrItineraryNotFound
	}
	return record, nil
}

func (r *itineraries) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Itinerary)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *itineraries) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Itinerary)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
