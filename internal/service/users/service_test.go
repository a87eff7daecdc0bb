package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/integrations/identity"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
	"github.com/m04kA/SMC-BarberService/pkg/ptr"
)

type fakeIdentity struct {
	info *identity.UserInfo
	err  error
}

func (f *fakeIdentity) GetUserInfoWithGracefulDegradation(context.Context, string) (*identity.UserInfo, error) {
	return f.info, f.err
}

func tokenUser() *domain.User {
	return &domain.User{
		ID:        "sub-1",
		Email:     "old@example.com",
		FirstName: "Ivan",
		Roles:     []domain.Role{domain.RoleBarber},
		BarberID:  ptr.Ptr(int64(4)),
	}
}

func TestService_GetMe_MergesUserinfo(t *testing.T) {
	svc := NewService(&fakeIdentity{info: &identity.UserInfo{
		Subject:   "sub-1",
		Email:     "ivan@example.com",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Phone:     ptr.Ptr("+7900"),
		Roles:     []string{"admin"},
	}}, logger.NewNop())

	resp, err := svc.GetMe(context.Background(), tokenUser(), "token")
	require.NoError(t, err)

	assert.False(t, resp.Degraded)
	assert.Equal(t, "ivan@example.com", resp.Email)
	assert.Equal(t, "Petrov", resp.LastName)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "+7900", *resp.Phone)
	assert.Equal(t, []string{"barber"}, resp.Roles)
	require.NotNil(t, resp.BarberID)
	assert.Equal(t, int64(4), *resp.BarberID)
}

func TestService_GetMe_Degraded(t *testing.T) {
	svc := NewService(&fakeIdentity{err: fmt.Errorf("%w: timeout", identity.ErrServiceDegraded)}, logger.NewNop())

	resp, err := svc.GetMe(context.Background(), tokenUser(), "token")
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Equal(t, "old@example.com", resp.Email)
}

func TestService_GetMe_Errors(t *testing.T) {
	svc := NewService(&fakeIdentity{err: identity.ErrUnauthorized}, logger.NewNop())
	_, err := svc.GetMe(context.Background(), tokenUser(), "token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	svc = NewService(&fakeIdentity{info: &identity.UserInfo{Subject: "someone-else"}}, logger.NewNop())
	_, err = svc.GetMe(context.Background(), tokenUser(), "token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
