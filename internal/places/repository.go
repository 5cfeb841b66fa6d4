package places

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"homestay/internal/database"
	"homestay/internal/guard"
)

// ErrPlaceNotFound is returned when no listing matches the given id.
var ErrPlaceNotFound = errors.New("place not found")

// Repository defines durable storage for listings.
type Repository interface {
	Create(ctx context.Context, place *Place) error
	GetByID(ctx context.Context, id string) (*Place, error)
	List(ctx context.Context) ([]Place, error)
	ListByOwner(ctx context.Context, filter guard.OwnerFilter) ([]Place, error)
	Update(ctx context.Context, place *Place) error
}

type postgresRepository struct {
	db database.Service
}

// NewRepository creates a PostgreSQL-backed places repository.
func NewRepository(db database.Service) Repository {
	return &postgresRepository{db: db}
}

const placeColumns = `id, owner_id, title, address, photos, description, perks, extra_info, check_in, check_out, max_guests, price, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, place *Place) error {
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	now := time.Now()
	place.CreatedAt = now
	place.UpdatedAt = now

	query := `
		INSERT INTO places (` + placeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		place.ID, place.Owner, place.Title, place.Address, place.Photos,
		place.Description, place.Perks, place.ExtraInfo, place.CheckIn,
		place.CheckOut, place.MaxGuests, place.Price, place.CreatedAt, place.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	place, err := scanPlace(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	return place, nil
}

// List returns every listing. Browsing is public.
func (r *postgresRepository) List(ctx context.Context) ([]Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places ORDER BY created_at DESC`
	return r.queryPlaces(ctx, query)
}

// ListByOwner returns exactly the listings owned by the filter's identity.
func (r *postgresRepository) ListByOwner(ctx context.Context, filter guard.OwnerFilter) ([]Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryPlaces(ctx, query, filter.UserID)
}

// Update persists the listing's mutable fields. Authorization happens in
// the service before this is called; owner_id is never part of the SET list.
// Concurrent updates against the same listing interleave last-write-wins:
// there is no row locking here, a known consistency gap.
func (r *postgresRepository) Update(ctx context.Context, place *Place) error {
	place.UpdatedAt = time.Now()

	query := `
		UPDATE places
		SET title = $2, address = $3, photos = $4, description = $5, perks = $6,
		    extra_info = $7, check_in = $8, check_out = $9, max_guests = $10,
		    price = $11, updated_at = $12
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		place.ID, place.Title, place.Address, place.Photos, place.Description,
		place.Perks, place.ExtraInfo, place.CheckIn, place.CheckOut,
		place.MaxGuests, place.Price, place.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlaceNotFound
	}

	return nil
}

func (r *postgresRepository) queryPlaces(ctx context.Context, query string, args ...any) ([]Place, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	places := []Place{}
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read places: %w", err)
	}

	return places, nil
}

func scanPlace(row pgx.Row) (*Place, error) {
	place := &Place{}
	err := row.Scan(
		&place.ID,
		&place.Owner,
		&place.Title,
		&place.Address,
		&place.Photos,
		&place.Description,
		&place.Perks,
		&place.ExtraInfo,
		&place.CheckIn,
		&place.CheckOut,
		&place.MaxGuests,
		&place.Price,
		&place.CreatedAt,
		&place.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return place, nil
}
