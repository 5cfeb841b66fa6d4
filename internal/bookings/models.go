package bookings

import (
	"time"

	"homestay/internal/places"
)

// Booking links a requester identity to a place and a date range. Immutable
// after creation.
type Booking struct {
	ID             string    `json:"id"`
	PlaceID        string    `json:"place"`
	UserID         string    `json:"user"`
	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	NumberOfGuests int       `json:"numberOfGuests"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Price          int       `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
}

// BookingWithPlace is a booking with its place joined and expanded, as
// returned by GET /bookings.
type BookingWithPlace struct {
	ID             string       `json:"id"`
	Place          places.Place `json:"place"`
	UserID         string       `json:"user"`
	CheckIn        time.Time    `json:"checkIn"`
	CheckOut       time.Time    `json:"checkOut"`
	NumberOfGuests int          `json:"numberOfGuests"`
	Name           string       `json:"name"`
	Phone          string       `json:"phone"`
	Price          int          `json:"price"`
	CreatedAt      time.Time    `json:"created_at"`
}

// CreateBookingRequest is the payload for POST /bookings. The requester is
// never part of it; it is bound to the verified claim.
type CreateBookingRequest struct {
	Place          string    `json:"place" binding:"required"`
	CheckIn        time.Time `json:"checkIn" binding:"required"`
	CheckOut       time.Time `json:"checkOut" binding:"required"`
	NumberOfGuests int       `json:"numberOfGuests" binding:"required,min=1"`
	Name           string    `json:"name" binding:"required"`
	Phone          string    `json:"phone"`
	Price          int       `json:"price"`
}
