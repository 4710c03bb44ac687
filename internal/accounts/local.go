// Package accounts provides the sign-up boundaries that actually create
// user accounts.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/nano-midea/postdir/internal/models"
	"github.com/anonto42/nano-midea/postdir/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	MessageUsernameTaken = "username taken"
	MessageEmailTaken    = "email already registered"
)

// conflictResponse turns a uniqueness error from the repository into the
// failure answer for the user.
func conflictResponse(err error) (models.SignUpResponse, bool) {
	switch {
	case errors.Is(err, repositories.ErrUsernameTaken):
		return models.SignUpResponse{Success: false, Message: MessageUsernameTaken}, true
	case errors.Is(err, repositories.ErrEmailTaken):
		return models.SignUpResponse{Success: false, Message: MessageEmailTaken}, true
	}
	return models.SignUpResponse{}, false
}

// LocalService creates accounts in an AccountRepository
type LocalService struct {
	accountRepository repositories.AccountRepository
	cost              int
}

// NewLocalService creates a new LocalService. cost is the bcrypt cost; 0
// selects bcrypt.DefaultCost.
func NewLocalService(accountRepo repositories.AccountRepository, cost int) *LocalService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &LocalService{accountRepository: accountRepo, cost: cost}
}

// SignUpUser registers req unless its username or email is already in use
func (s *LocalService) SignUpUser(ctx context.Context, req models.RegistrationRequest) (models.SignUpResponse, error) {
	if err := ctx.Err(); err != nil {
		return models.SignUpResponse{}, err
	}

	// Check if username is already taken
	_, err := s.accountRepository.GetAccountByUsername(req.Username)
	if err == nil {
		return models.SignUpResponse{Success: false, Message: MessageUsernameTaken}, nil
	}
	if !errors.Is(err, repositories.ErrAccountNotFound) {
		return models.SignUpResponse{}, fmt.Errorf("look up username: %w", err)
	}

	// Check if email is already registered
	_, err = s.accountRepository.GetAccountByEmail(req.Email)
	if err == nil {
		return models.SignUpResponse{Success: false, Message: MessageEmailTaken}, nil
	}
	if !errors.Is(err, repositories.ErrAccountNotFound) {
		return models.SignUpResponse{}, fmt.Errorf("look up email: %w", err)
	}

	dob, err := req.DateOfBirth()
	if err != nil {
		return models.SignUpResponse{Success: false, Message: "invalid date of birth"}, nil
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.SignUpResponse{}, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		DateOfBirth:  dob,
	}

	// A concurrent sign-up may have claimed the name since the checks above
	if err := s.accountRepository.CreateAccount(account); err != nil {
		if resp, ok := conflictResponse(err); ok {
			return resp, nil
		}
		return models.SignUpResponse{}, fmt.Errorf("create account: %w", err)
	}

	return models.SignUpResponse{Success: true, Message: "account created"}, nil
}
