package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-midea/postdir/internal/models"
	"github.com/anonto42/nano-midea/postdir/internal/repositories"
	"go.uber.org/zap"
)

// AuthClient is the part of *auth.Client the Firebase boundary uses
type AuthClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseService creates accounts with Firebase Authentication. Firebase
// has no notion of a username, so usernames are kept unique in an
// AccountRepository next to it.
type FirebaseService struct {
	authClient        AuthClient
	accountRepository repositories.AccountRepository
	log               *zap.Logger
}

// NewFirebaseService creates a new FirebaseService
func NewFirebaseService(authClient AuthClient, accountRepo repositories.AccountRepository, log *zap.Logger) *FirebaseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FirebaseService{authClient: authClient, accountRepository: accountRepo, log: log}
}

// SignUpUser creates the Firebase user, stores username and dob as custom
// claims and records the account locally. A Firebase user is removed again
// when a later step fails.
func (s *FirebaseService) SignUpUser(ctx context.Context, req models.RegistrationRequest) (models.SignUpResponse, error) {
	_, err := s.accountRepository.GetAccountByUsername(req.Username)
	if err == nil {
		return models.SignUpResponse{Success: false, Message: MessageUsernameTaken}, nil
	}
	if !errors.Is(err, repositories.ErrAccountNotFound) {
		return models.SignUpResponse{}, fmt.Errorf("look up username: %w", err)
	}

	dob, err := req.DateOfBirth()
	if err != nil {
		return models.SignUpResponse{Success: false, Message: "invalid date of birth"}, nil
	}

	params := (&auth.UserToCreate{}).
		Email(req.Email).
		Password(req.Password).
		DisplayName(strings.TrimSpace(req.FirstName + " " + req.LastName))

	user, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return models.SignUpResponse{Success: false, Message: MessageEmailTaken}, nil
		}
		return models.SignUpResponse{}, fmt.Errorf("create firebase user: %w", err)
	}

	claims := map[string]interface{}{
		"username": req.Username,
		"dob":      req.DOB,
	}
	if err := s.authClient.SetCustomUserClaims(ctx, user.UID, claims); err != nil {
		s.rollback(ctx, user.UID)
		return models.SignUpResponse{}, fmt.Errorf("set claims for %s: %w", user.UID, err)
	}

	account := &models.Account{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Username:    req.Username,
		Email:       req.Email,
		ExternalID:  user.UID,
		DateOfBirth: dob,
	}
	if err := s.accountRepository.CreateAccount(account); err != nil {
		s.rollback(ctx, user.UID)
		if resp, ok := conflictResponse(err); ok {
			return resp, nil
		}
		return models.SignUpResponse{}, fmt.Errorf("record account: %w", err)
	}

	return models.SignUpResponse{Success: true, Message: "account created"}, nil
}

const rollbackTimeout = 10 * time.Second

// rollback deletes a half-created Firebase user. It runs even when the
// request context is already done.
func (s *FirebaseService) rollback(ctx context.Context, uid string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	if err := s.authClient.DeleteUser(ctx, uid); err != nil {
		s.log.Error("Failed to delete firebase user after failed sign-up", zap.String("uid", uid), zap.Error(err))
	}
}
