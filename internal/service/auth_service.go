package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/gtd_catalog/internal/models"
	"github.com/GTDGit/gtd_catalog/internal/utils"
)

// CustomerStore loads and creates customer accounts.
type CustomerStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
}

// AuthService authenticates storefront customers.
type AuthService struct {
	customers CustomerStore
}

// NewAuthService constructs a new AuthService.
func NewAuthService(customers CustomerStore) *AuthService {
	return &AuthService{customers: customers}
}

// Login verifies the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	log.Debug().Str("email", email).Msg("Login attempt")

	c, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().Str("email", email).Msg("Unknown customer")
			return "", utils.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load customer: %w", err)
	}

	if !c.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return "", utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return "", utils.ErrInvalidCredentials
	}

	log.Info().Int("customer_id", c.ID).Msg("Login successful")
	return utils.GenerateJWT(c.ID, c.Email)
}

// CreateCustomer registers an active customer with a bcrypt password hash.
func (s *AuthService) CreateCustomer(ctx context.Context, email, password, name string) (*models.Customer, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	c := &models.Customer{
		Email:        normalizeEmail(email),
		PasswordHash: string(hashed),
		Name:         name,
		IsActive:     true,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
