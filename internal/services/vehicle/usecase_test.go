package vehicle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domainvehicle "github.com/flexiride/backend/internal/domain/vehicle"
)

type fakeRepo struct {
	nextID int64
	byID   map[int64]*domainvehicle.Vehicle
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[int64]*domainvehicle.Vehicle)}
}

func (f *fakeRepo) Create(_ context.Context, v *domainvehicle.Vehicle) error {
	f.nextID++
	v.ID = f.nextID
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domainvehicle.Vehicle, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, domainvehicle.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter domainvehicle.Filter) ([]*domainvehicle.Vehicle, error) {
	var out []*domainvehicle.Vehicle
	for _, v := range f.byID {
		if filter.OwnerID != nil && v.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, v *domainvehicle.Vehicle) error {
	if _, ok := f.byID[v.ID]; !ok {
		return domainvehicle.ErrNotFound
	}
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domainvehicle.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func seed(t *testing.T, uc *Usecase, ownerID int64) *domainvehicle.Vehicle {
	t.Helper()
	v, err := uc.Create(context.Background(), ownerID, CreateInput{
		Title:        "City bike",
		Type:         domainvehicle.TypeBike,
		PricePerHour: 5,
		PricePerDay:  20,
		Location:     domainvehicle.Location{Address: "Main St 1", Lat: 52.5, Lng: 13.4},
		Images:       []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	require.NoError(t, err)
	return v
}

func TestCreate_DefaultsToActive(t *testing.T) {
	t.Parallel()

	uc := NewUsecase(newFakeRepo())
	v := seed(t, uc, 1)
	require.Equal(t, domainvehicle.StatusActive, v.Status)
	require.Equal(t, int64(1), v.OwnerID)
	require.NotZero(t, v.ID)
}

func TestList_Filter(t *testing.T) {
	t.Parallel()

	uc := NewUsecase(newFakeRepo())
	seed(t, uc, 1)
	seed(t, uc, 2)

	owner := int64(1)
	got, err := uc.List(context.Background(), domainvehicle.Filter{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, owner, got[0].OwnerID)

	got, err = uc.List(context.Background(), domainvehicle.Filter{Type: domainvehicle.TypeCar})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	t.Parallel()

	uc := NewUsecase(newFakeRepo())
	v := seed(t, uc, 1)

	title := "Updated bike"
	_, err := uc.Update(context.Background(), v.ID, 2, UpdateInput{Title: &title})
	require.ErrorIs(t, err, domainvehicle.ErrNotOwner)

	got, err := uc.Update(context.Background(), v.ID, 1, UpdateInput{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Updated bike", got.Title)
}

func TestUpdate_AppendsImages(t *testing.T) {
	t.Parallel()

	uc := NewUsecase(newFakeRepo())
	v := seed(t, uc, 1)

	got, err := uc.Update(context.Background(), v.ID, 1, UpdateInput{
		NewImages: []string{"https://cdn.example.com/c.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, got.Images, 3)
	require.Equal(t, "https://cdn.example.com/c.jpg", got.Images[2])
}

func TestDelete(t *testing.T) {
	t.Parallel()

	uc := NewUsecase(newFakeRepo())
	v := seed(t, uc, 1)

	require.ErrorIs(t, uc.Delete(context.Background(), v.ID, 2), domainvehicle.ErrNotOwner)
	require.NoError(t, uc.Delete(context.Background(), v.ID, 1))

	_, err := uc.Get(context.Background(), v.ID)
	require.ErrorIs(t, err, domainvehicle.ErrNotFound)
}

func TestRemoveImage(t *testing.T) {
	t.Parallel()

	uc := NewUsecase(newFakeRepo())
	v := seed(t, uc, 1)

	got, err := uc.RemoveImage(context.Background(), v.ID, 1, "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn.example.com/b.jpg"}, got.Images)

	// Removing an unknown URL is a no-op, not an error.
	got, err = uc.RemoveImage(context.Background(), v.ID, 1, "https://cdn.example.com/zzz.jpg")
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
}
