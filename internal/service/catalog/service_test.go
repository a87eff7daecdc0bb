package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberService/internal/service/catalog/models"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
)

type fakeRepo struct {
	services map[int64]*domain.Service
	nextID   int64
	err      error
}

func newFakeRepo(services ...*domain.Service) *fakeRepo {
	r := &fakeRepo{services: map[int64]*domain.Service{}, nextID: 100}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	s.ID = r.nextID
	r.services[s.ID] = s
	return s, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (r *fakeRepo) List(_ context.Context) ([]*domain.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*domain.Service, 0, len(r.services))
	for _, s := range r.services {
		result = append(result, s)
	}
	return result, nil
}

func TestService_GetByID(t *testing.T) {
	svc := NewService(newFakeRepo(&domain.Service{ID: 1, Name: "Haircut", DurationMinutes: 60, Price: 1500}), logger.NewNop())

	got, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Haircut", got.Name)
	assert.Equal(t, 60, got.DurationMinutes)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_List_RepositoryError(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("db down")
	svc := NewService(repo, logger.NewNop())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Create(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewNop())

	got, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		Name:            "  Beard trim ",
		DurationMinutes: 30,
		Price:           700,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), got.ID)
	assert.Equal(t, "Beard trim", got.Name)
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewNop())

	tests := []struct {
		name string
		req  models.CreateServiceRequest
	}{
		{name: "empty name", req: models.CreateServiceRequest{Name: " ", DurationMinutes: 30}},
		{name: "zero duration", req: models.CreateServiceRequest{Name: "Cut", DurationMinutes: 0}},
		{name: "too long", req: models.CreateServiceRequest{Name: "Cut", DurationMinutes: domain.MaxServiceDurationMinutes + 1}},
		{name: "negative price", req: models.CreateServiceRequest{Name: "Cut", DurationMinutes: 30, Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
