package barbers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	barberRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/barber"
	"github.com/m04kA/SMC-BarberService/internal/service/barbers/models"
)

// Service сервис барберов
type Service struct {
	repo   BarberRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса барберов
func NewService(repo BarberRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List получает барберов
// Если указана дата - только тех, у кого есть рабочий день на эту дату
func (s *Service) List(ctx context.Context, date *time.Time) (*models.BarberListResponse, error) {
	var (
		barbers []*domain.Barber
		err     error
	)

	if date != nil {
		barbers, err = s.repo.ListByDate(ctx, *date)
	} else {
		barbers, err = s.repo.List(ctx)
	}
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d barbers", len(barbers))
	return models.FromDomainBarberList(barbers), nil
}

// GetByID получает барбера по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BarberResponse, error) {
	barber, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, barberRepo.ErrBarberNotFound) {
			s.logger.Warn("GetByID: barber id=%d not found", id)
			return nil, ErrBarberNotFound
		}
		s.logger.Error("GetByID: repository error for barber id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBarber(barber), nil
}

// Create регистрирует пользователя как барбера
// Доступно только администраторам (проверяется middleware)
func (s *Service) Create(ctx context.Context, req *models.CreateBarberRequest) (*models.BarberResponse, error) {
	s.logger.Info("Create: registering barber for user=%s", req.UserID)

	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: firstName is required", ErrInvalidInput)
	}

	barber, err := s.repo.Create(ctx, &domain.Barber{
		UserID:    strings.TrimSpace(req.UserID),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Bio:       req.Bio,
	})
	if err != nil {
		if errors.Is(err, barberRepo.ErrBarberAlreadyExists) {
			s.logger.Warn("Create: user=%s is already a barber", req.UserID)
			return nil, ErrBarberAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: barber id=%d registered", barber.ID)
	return models.FromDomainBarber(barber), nil
}
