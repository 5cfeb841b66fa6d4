package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the password does not match the
// stored hash. It is deliberately distinct from ErrUserNotFound so handlers
// can mirror the API's documented behavior for each case.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service implements registration, password verification, and profile reads.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register hashes the password and stores a new identity. bcrypt embeds a
// fresh random salt in every hash. Duplicate emails surface as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate looks up the identity by email and compares the password
// against the stored hash. The two failure modes stay separate:
// ErrUserNotFound for an unknown email, ErrInvalidCredentials for a bad
// password. Neither reveals hash material.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Profile returns the public view of a user. The password hash is never
// part of the result.
func (s *Service) Profile(ctx context.Context, id string) (*PublicProfile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
