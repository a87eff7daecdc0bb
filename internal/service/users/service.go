package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/integrations/identity"
	"github.com/m04kA/SMC-BarberService/internal/service/users/models"
)

// Service сервис профиля текущего пользователя
type Service struct {
	identityClient IdentityClient
	logger         Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(identityClient IdentityClient, logger Logger) *Service {
	return &Service{
		identityClient: identityClient,
		logger:         logger,
	}
}

// GetMe возвращает профиль пользователя из токена, дополненный данными провайдера
// При недоступности провайдера отдается профиль из токена с флагом degraded
func (s *Service) GetMe(ctx context.Context, actor *domain.User, accessToken string) (*models.UserResponse, error) {
	info, err := s.identityClient.GetUserInfoWithGracefulDegradation(ctx, accessToken)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnauthorized):
			s.logger.Warn("GetMe: identity provider rejected token for user=%s", actor.ID)
			return nil, ErrUnauthorized
		case errors.Is(err, identity.ErrServiceDegraded):
			s.logger.Warn("GetMe: identity provider degraded, using token claims for user=%s", actor.ID)
			return models.FromDomainUser(actor, true), nil
		default:
			s.logger.Error("GetMe: identity provider error for user=%s: %v", actor.ID, err)
			return nil, fmt.Errorf("%w: GetMe - identity error: %v", ErrInternal, err)
		}
	}

	if info.Subject != actor.ID {
		s.logger.Warn("GetMe: userinfo sub=%s does not match token sub=%s", info.Subject, actor.ID)
		return nil, ErrUnauthorized
	}

	return models.FromDomainUser(merge(actor, info), false), nil
}

// merge дополняет пользователя из токена профилем провайдера
// Роли и barber_id берутся только из подписанного токена
func merge(actor *domain.User, info *identity.UserInfo) *domain.User {
	user := *actor
	if info.Email != "" {
		user.Email = info.Email
	}
	if info.FirstName != "" {
		user.FirstName = info.FirstName
	}
	if info.LastName != "" {
		user.LastName = info.LastName
	}
	if info.Phone != nil {
		user.Phone = info.Phone
	}
	return &user
}
