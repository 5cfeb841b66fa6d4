package places

import "time"

// Place represents a rentable property listing. Owner is set exactly once,
// at creation, to the creator's identity.
type Place struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Address     string    `json:"address"`
	Photos      []string  `json:"photos"`
	Description string    `json:"description"`
	Perks       []string  `json:"perks"`
	ExtraInfo   string    `json:"extraInfo"`
	CheckIn     string    `json:"checkIn"`
	CheckOut    string    `json:"checkOut"`
	MaxGuests   int       `json:"maxGuests"`
	Price       int       `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceFields carries the mutable listing fields. Owner is deliberately not
// part of it: creation binds owner to the verified claim, updates never
// touch it.
type PlaceFields struct {
	Title       string   `json:"title" binding:"required"`
	Address     string   `json:"address"`
	AddedPhotos []string `json:"addedPhotos"`
	Description string   `json:"description"`
	Perks       []string `json:"perks"`
	ExtraInfo   string   `json:"extraInfo"`
	CheckIn     string   `json:"checkIn"`
	CheckOut    string   `json:"checkOut"`
	MaxGuests   int      `json:"maxGuests"`
	Price       int      `json:"price"`
}

// UpdatePlaceRequest is the payload for PUT /places. The photo list arrives
// under "photos", the key listing reads return; "addedPhotos" is also
// accepted since creation uses it.
type UpdatePlaceRequest struct {
	ID     string   `json:"id" binding:"required"`
	Photos []string `json:"photos"`
	PlaceFields
}

func (r *UpdatePlaceRequest) apply(p *Place) {
	r.PlaceFields.apply(p)
	if r.Photos != nil {
		p.Photos = r.Photos
	}
}

func (f *PlaceFields) apply(p *Place) {
	p.Title = f.Title
	p.Address = f.Address
	p.Photos = f.AddedPhotos
	p.Description = f.Description
	p.Perks = f.Perks
	p.ExtraInfo = f.ExtraInfo
	p.CheckIn = f.CheckIn
	p.CheckOut = f.CheckOut
	p.MaxGuests = f.MaxGuests
	p.Price = f.Price
}
