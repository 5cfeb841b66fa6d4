package places

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"homestay/internal/guard"
)

// fakeRepository is an in-memory Repository for tests.
type fakeRepository struct {
	places map[string]*Place
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{places: make(map[string]*Place)}
}

func (f *fakeRepository) Create(_ context.Context, place *Place) error {
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	clone := *place
	f.places[place.ID] = &clone
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*Place, error) {
	place, ok := f.places[id]
	if !ok {
		return nil, ErrPlaceNotFound
	}
	clone := *place
	return &clone, nil
}

func (f *fakeRepository) List(_ context.Context) ([]Place, error) {
	all := []Place{}
	for _, p := range f.places {
		all = append(all, *p)
	}
	return all, nil
}

func (f *fakeRepository) ListByOwner(_ context.Context, filter guard.OwnerFilter) ([]Place, error) {
	owned := []Place{}
	for _, p := range f.places {
		if p.Owner == filter.UserID {
			owned = append(owned, *p)
		}
	}
	return owned, nil
}

func (f *fakeRepository) Update(_ context.Context, place *Place) error {
	if _, ok := f.places[place.ID]; !ok {
		return ErrPlaceNotFound
	}
	clone := *place
	f.places[place.ID] = &clone
	return nil
}

func TestCreate_ForcesOwnerToCaller(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithCache(newFakeRepository(), nil)

	place, err := svc.Create(context.Background(), "alice-id", PlaceFields{Title: "Cabin", Price: 100})
	require.NoError(t, err)
	require.Equal(t, "alice-id", place.Owner)
	require.Equal(t, "Cabin", place.Title)
}

func TestUpdate_ForbiddenForNonOwner(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewServiceWithCache(repo, nil)
	ctx := context.Background()

	place, err := svc.Create(ctx, "alice-id", PlaceFields{Title: "Cabin", Price: 100})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "bob-id", UpdatePlaceRequest{
		ID:          place.ID,
		PlaceFields: PlaceFields{Title: "Bob's now", Price: 1},
	})
	require.ErrorIs(t, err, guard.ErrForbidden)

	// The listing must be unchanged after the denied mutation
	unchanged, err := repo.GetByID(ctx, place.ID)
	require.NoError(t, err)
	require.Equal(t, "Cabin", unchanged.Title)
	require.Equal(t, 100, unchanged.Price)
	require.Equal(t, "alice-id", unchanged.Owner)
}

func TestUpdate_OwnerCanMutate(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewServiceWithCache(repo, nil)
	ctx := context.Background()

	place, err := svc.Create(ctx, "alice-id", PlaceFields{Title: "Cabin", Price: 100})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "alice-id", UpdatePlaceRequest{
		ID:          place.ID,
		PlaceFields: PlaceFields{Title: "Lakeside Cabin", Price: 120},
	})
	require.NoError(t, err)
	require.Equal(t, "Lakeside Cabin", updated.Title)
	require.Equal(t, "alice-id", updated.Owner, "update must not change the owner")
}

func TestUpdate_UnknownID(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithCache(newFakeRepository(), nil)

	_, err := svc.Update(context.Background(), "alice-id", UpdatePlaceRequest{
		ID:          "missing",
		PlaceFields: PlaceFields{Title: "x"},
	})
	require.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestListOwned_ScopesExactly(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithCache(newFakeRepository(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "alice-id", PlaceFields{Title: "A", Price: i})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, "bob-id", PlaceFields{Title: "B", Price: i})
		require.NoError(t, err)
	}

	aliceOwned, err := svc.ListOwned(ctx, "alice-id")
	require.NoError(t, err)
	require.Len(t, aliceOwned, 3)
	for _, p := range aliceOwned {
		require.Equal(t, "alice-id", p.Owner)
	}

	bobOwned, err := svc.ListOwned(ctx, "bob-id")
	require.NoError(t, err)
	require.Len(t, bobOwned, 2)

	nobodyOwned, err := svc.ListOwned(ctx, "carol-id")
	require.NoError(t, err)
	require.Empty(t, nobodyOwned)
}
