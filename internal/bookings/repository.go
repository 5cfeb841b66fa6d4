package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homestay/internal/database"
	"homestay/internal/guard"
)

// Repository defines durable storage for bookings.
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	ListByRequester(ctx context.Context, filter guard.OwnerFilter) ([]BookingWithPlace, error)
}

type postgresRepository struct {
	db database.Service
}

// NewRepository creates a PostgreSQL-backed bookings repository.
func NewRepository(db database.Service) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, booking *Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = time.Now()

	query := `
		INSERT INTO bookings (id, place_id, user_id, check_in, check_out, number_of_guests, name, phone, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID, booking.PlaceID, booking.UserID, booking.CheckIn,
		booking.CheckOut, booking.NumberOfGuests, booking.Name, booking.Phone,
		booking.Price, booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// ListByRequester returns exactly the bookings made by the filter's
// identity, each with its place row joined and expanded.
func (r *postgresRepository) ListByRequester(ctx context.Context, filter guard.OwnerFilter) ([]BookingWithPlace, error) {
	query := `
		SELECT b.id, b.user_id, b.check_in, b.check_out, b.number_of_guests,
		       b.name, b.phone, b.price, b.created_at,
		       p.id, p.owner_id, p.title, p.address, p.photos, p.description,
		       p.perks, p.extra_info, p.check_in, p.check_out, p.max_guests,
		       p.price, p.created_at, p.updated_at
		FROM bookings b
		JOIN places p ON p.id = b.place_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []BookingWithPlace{}
	for rows.Next() {
		var b BookingWithPlace
		err := rows.Scan(
			&b.ID, &b.UserID, &b.CheckIn, &b.CheckOut, &b.NumberOfGuests,
			&b.Name, &b.Phone, &b.Price, &b.CreatedAt,
			&b.Place.ID, &b.Place.Owner, &b.Place.Title, &b.Place.Address,
			&b.Place.Photos, &b.Place.Description, &b.Place.Perks,
			&b.Place.ExtraInfo, &b.Place.CheckIn, &b.Place.CheckOut,
			&b.Place.MaxGuests, &b.Place.Price, &b.Place.CreatedAt, &b.Place.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	return bookings, nil
}
