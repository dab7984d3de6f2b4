package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_catalog/internal/models"
	"github.com/GTDGit/gtd_catalog/internal/utils"
)

func TestLogin(t *testing.T) {
	utils.ConfigureJWT("test-secret", time.Hour)
	customers := &fakeCustomers{byEmail: map[string]*models.Customer{}}
	svc := NewAuthService(customers)

	created, err := svc.CreateCustomer(context.Background(), " Ana@Example.com ", "s3cret!", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.NotEqual(t, "s3cret!", created.PasswordHash)

	token, err := svc.Login(context.Background(), "ANA@example.com", "s3cret!")
	require.NoError(t, err)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret!")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	created.IsActive = false
	_, err = svc.Login(context.Background(), "ana@example.com", "s3cret!")
	assert.ErrorIs(t, err, utils.ErrAccountInactive)
}
