package places_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"homestay/internal/bookings"
	"homestay/internal/database"
	"homestay/internal/guard"
	"homestay/internal/places"
	"homestay/internal/users"
)

// startPostgres spins up a disposable PostgreSQL container and returns a
// migrated database service.
func startPostgres(t *testing.T) database.Service {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("homestay_test"),
		tcpostgres.WithUsername("homestay"),
		tcpostgres.WithPassword("homestay"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return db
}

func seedUser(t *testing.T, db database.Service, name, email string) *users.User {
	t.Helper()

	u := &users.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, users.NewRepository(db).Create(context.Background(), u))
	return u
}

func TestPlacesRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db := startPostgres(t)
	repo := places.NewRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "a@x.com")
	bob := seedUser(t, db, "Bob", "b@x.com")

	cabin := &places.Place{
		Owner:     alice.ID,
		Title:     "Cabin",
		Address:   "1 Forest Rd",
		Photos:    []string{"photo1.jpg", "photo2.jpg"},
		Perks:     []string{"wifi", "parking"},
		ExtraInfo: "no smoking",
		CheckIn:   "14:00",
		CheckOut:  "11:00",
		MaxGuests: 4,
		Price:     100,
	}
	require.NoError(t, repo.Create(ctx, cabin))
	require.NotEmpty(t, cabin.ID)

	t.Run("round trip preserves arrays", func(t *testing.T) {
		got, err := repo.GetByID(ctx, cabin.ID)
		require.NoError(t, err)
		require.Equal(t, "Cabin", got.Title)
		require.Equal(t, alice.ID, got.Owner)
		require.Equal(t, []string{"photo1.jpg", "photo2.jpg"}, got.Photos)
		require.Equal(t, []string{"wifi", "parking"}, got.Perks)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		require.ErrorIs(t, err, places.ErrPlaceNotFound)
	})

	t.Run("owner scoping", func(t *testing.T) {
		barn := &places.Place{Owner: bob.ID, Title: "Barn", Price: 50}
		require.NoError(t, repo.Create(ctx, barn))

		owned, err := repo.ListByOwner(ctx, guard.OwnedBy(alice.ID))
		require.NoError(t, err)
		require.Len(t, owned, 1)
		require.Equal(t, "Cabin", owned[0].Title)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("update keeps owner", func(t *testing.T) {
		got, err := repo.GetByID(ctx, cabin.ID)
		require.NoError(t, err)

		got.Title = "Lakeside Cabin"
		got.Price = 120
		require.NoError(t, repo.Update(ctx, got))

		updated, err := repo.GetByID(ctx, cabin.ID)
		require.NoError(t, err)
		require.Equal(t, "Lakeside Cabin", updated.Title)
		require.Equal(t, 120, updated.Price)
		require.Equal(t, alice.ID, updated.Owner)
	})

	t.Run("update of missing row", func(t *testing.T) {
		ghost := &places.Place{ID: uuid.New().String(), Title: "Ghost"}
		require.ErrorIs(t, repo.Update(ctx, ghost), places.ErrPlaceNotFound)
	})

	t.Run("bookings join expands the place", func(t *testing.T) {
		bookingRepo := bookings.NewRepository(db)

		b := &bookings.Booking{
			PlaceID:        cabin.ID,
			UserID:         bob.ID,
			CheckIn:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:       time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
			NumberOfGuests: 2,
			Name:           "Bob",
			Phone:          "123",
			Price:          480,
		}
		require.NoError(t, bookingRepo.Create(ctx, b))

		mine, err := bookingRepo.ListByRequester(ctx, guard.OwnedBy(bob.ID))
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, "Lakeside Cabin", mine[0].Place.Title)
		require.Equal(t, 2, mine[0].NumberOfGuests)

		theirs, err := bookingRepo.ListByRequester(ctx, guard.OwnedBy(alice.ID))
		require.NoError(t, err)
		require.Empty(t, theirs)
	})
}

func TestUsersRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db := startPostgres(t)
	repo := users.NewRepository(db)
	ctx := context.Background()

	u := &users.User{Name: "Alice", Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		byID, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "Alice", byID.Name)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := &users.User{Name: "Other", Email: "a@x.com", PasswordHash: "hash"}
		require.ErrorIs(t, repo.Create(ctx, dup), users.ErrEmailTaken)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@x.com")
		require.ErrorIs(t, err, users.ErrUserNotFound)
	})
}
